package hedera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	validKey := "302e020100300506032b657004220420" +
		"e6a0d7f1a1b2c3d4e5f60718293a4b5c6d7e8f901a2b3c4d5e6f708192a3b4c5"

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "unknown network",
			cfg:     Config{Network: "localnet", OperatorAccountID: "0.0.2", OperatorKey: validKey},
			wantErr: "unknown hedera network",
		},
		{
			name:    "bad operator account",
			cfg:     Config{Network: "testnet", OperatorAccountID: "not-an-account", OperatorKey: validKey},
			wantErr: "invalid operator account ID",
		},
		{
			name:    "bad operator key",
			cfg:     Config{Network: "testnet", OperatorAccountID: "0.0.2", OperatorKey: "garbage"},
			wantErr: "invalid operator key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewClient_DefaultsToTestnet(t *testing.T) {
	validKey := "302e020100300506032b657004220420" +
		"e6a0d7f1a1b2c3d4e5f60718293a4b5c6d7e8f901a2b3c4d5e6f708192a3b4c5"

	client, err := NewClient(Config{OperatorAccountID: "0.0.2", OperatorKey: validKey})
	require.NoError(t, err)
	require.NotNil(t, client)
	require.NoError(t, client.Close())
}
