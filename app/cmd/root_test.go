package cmd

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_initConfig(t *testing.T) {
	if wd, err := os.Getwd(); err != nil {
		t.Error(err)
	} else {
		configFile = wd + "/../../config/journey.example.yaml"
	}
	initConfig()
	assert.EqualValues(t, "127.0.0.1:8473", appConfig.BindAddress)
	assert.EqualValues(t, 3*time.Minute, appConfig.Sync.Ttl)
	assert.Contains(t, appConfig.Modules.SupportedTypes, "page")
}
