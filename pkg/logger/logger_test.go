package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestWithComponentTagsEntries(t *testing.T) {
	log := New("debug")

	entry := log.WithComponent("poller")
	assert.Equal(t, "poller", entry.Data["component"])
}

func TestWithUserIDTagsEntries(t *testing.T) {
	log := New("debug")

	entry := log.WithUserID("u-42")
	assert.Equal(t, "u-42", entry.Data["user_id"])
}

func TestNewFallsBackToInfoLevel(t *testing.T) {
	log := New("not-a-level")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
