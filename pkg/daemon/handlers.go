package daemon

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/calibration"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/config"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/types"
	"github.com/Charlie-Tejano/Water-Quality-Monitor/pkg/version"
)

func (d *Daemon) getStatus(c *gin.Context) {
	st, ok := d.Status()
	if !ok {
		c.IndentedJSON(http.StatusServiceUnavailable, "no cycle has completed yet")
		_ = c.AbortWithError(http.StatusServiceUnavailable, fmt.Errorf("no cycle has completed yet"))
		return
	}
	c.IndentedJSON(http.StatusOK, st)
}

func (d *Daemon) getIndex(c *gin.Context) {
	st, ok := d.Status()
	if !ok {
		c.IndentedJSON(http.StatusServiceUnavailable, "no cycle has completed yet")
		_ = c.AbortWithError(http.StatusServiceUnavailable, fmt.Errorf("no cycle has completed yet"))
		return
	}
	c.IndentedJSON(http.StatusOK, st.Index)
}

func (d *Daemon) getState(c *gin.Context) {
	st, ok := d.Status()
	if !ok {
		c.IndentedJSON(http.StatusServiceUnavailable, "no cycle has completed yet")
		_ = c.AbortWithError(http.StatusServiceUnavailable, fmt.Errorf("no cycle has completed yet"))
		return
	}
	c.IndentedJSON(http.StatusOK, st.State)
}

func (d *Daemon) getCalibration(c *gin.Context) {
	rec, loaded := d.store.Record()
	cal := types.CalibrationStatus{
		Loaded:    loaded,
		ClearRaw:  rec.ClearRaw,
		CloudyRaw: rec.CloudyRaw,
		Stage:     string(d.flow.Stage()),
	}
	if pending, ok := d.flow.PendingClear(); ok {
		cal.PendingClearRaw = pending
	}
	c.IndentedJSON(http.StatusOK, cal)
}

func (d *Daemon) postCapture(c *gin.Context) {
	stage, err := d.Capture()
	if err != nil {
		logrus.Errorf("capture failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	var msg string
	switch stage {
	case calibration.StageWaitCloudy:
		msg = "clear reference captured, now put the sensor in cloudy reference water and capture again"
	case calibration.StageDone:
		msg = "calibration saved"
	default:
		msg = "calibration invalidated, capture the clear reference first"
	}

	logrus.WithField("stage", stage).Infof("capture via api")

	c.IndentedJSON(http.StatusCreated, msg)
}

func (d *Daemon) postReset(c *gin.Context) {
	if err := d.ResetCalibration(); err != nil {
		logrus.Errorf("reset calibration failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, "calibration reset, capture both references again")
}

func (d *Daemon) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(d.conf)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (d *Daemon) setAlpha(c *gin.Context) {
	b, err := c.GetRawData()
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	alpha, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if alpha <= 0 || alpha >= 1 {
		err := fmt.Errorf("alpha must be in (0,1) exclusive, got %v", alpha)
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := d.SetAlpha(alpha); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	logrus.Infof("set smoothing alpha to %v", alpha)

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("set smoothing alpha to %v", alpha))
}

func (d *Daemon) getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
