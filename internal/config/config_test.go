package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *IndexerConfig {
	return &IndexerConfig{
		NodeHost:           "127.0.0.1",
		NodePort:           18232,
		TCPActive:          true,
		MaxQueueSize:       64,
		IdleWorkerPoolSize: 2,
		MaxWorkerPoolSize:  8,
	}
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateNoIngress(t *testing.T) {
	c := validConfig()
	c.TCPActive = false
	require.ErrorIs(t, c.Validate(), ErrNoIngressEnabled)
}

func TestValidateNymIngressAlone(t *testing.T) {
	c := validConfig()
	c.TCPActive = false
	path := "/etc/nym"
	c.NymConfPath = &path
	require.NoError(t, c.Validate())
}

func TestValidatePartialCredentials(t *testing.T) {
	c := validConfig()
	c.NodeCredentials = &NodeCredentials{User: "alice"}
	require.ErrorIs(t, c.Validate(), ErrPartialCredentials)
}

func TestValidateFullCredentials(t *testing.T) {
	c := validConfig()
	c.NodeCredentials = &NodeCredentials{User: "alice", Password: "hunter2"}
	require.NoError(t, c.Validate())
}

func TestValidateQueueSize(t *testing.T) {
	c := validConfig()
	c.MaxQueueSize = 0
	require.ErrorIs(t, c.Validate(), ErrQueueSize)
}

func TestValidateWorkerBounds(t *testing.T) {
	c := validConfig()
	c.IdleWorkerPoolSize = 10
	c.MaxWorkerPoolSize = 4
	require.ErrorIs(t, c.Validate(), ErrWorkerBounds)
}
