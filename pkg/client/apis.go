package client

import (
	"encoding/json"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/config"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/types"
)

func (c *Client) GetStatus() (*types.Status, error) {
	ret, err := c.Get("/status")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get status")
	}

	var st types.Status
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal status")
	}

	return &st, nil
}

func (c *Client) GetIndex() (int, error) {
	ret, err := c.Get("/index")
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to get turbidity index")
	}
	index, err := strconv.Atoi(ret)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to unmarshal turbidity index")
	}
	return index, nil
}

func (c *Client) GetState() (string, error) {
	ret, err := c.Get("/state")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get water state")
	}
	return unquote(ret), nil
}

func (c *Client) GetCalibration() (*types.CalibrationStatus, error) {
	ret, err := c.Get("/calibration")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get calibration")
	}

	var cal types.CalibrationStatus
	if err := json.Unmarshal([]byte(ret), &cal); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calibration")
	}

	return &cal, nil
}

// Capture advances the calibration flow by one reference capture, exactly
// as a long press on the hardware button would.
func (c *Client) Capture() (string, error) {
	ret, err := c.Post("/calibration/capture", "")
	if err != nil {
		return "", err
	}
	return unquote(ret), nil
}

func (c *Client) ResetCalibration() (string, error) {
	ret, err := c.Post("/calibration/reset", "")
	if err != nil {
		return "", err
	}
	return unquote(ret), nil
}

func (c *Client) SetAlpha(alpha float64) (string, error) {
	ret, err := c.Put("/alpha", strconv.FormatFloat(alpha, 'f', -1, 64))
	if err != nil {
		return "", err
	}
	return unquote(ret), nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	return unquote(ret), nil
}

// unquote removes the "" around a JSON string. I don't want to use a JSON
// decoder just for this.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
