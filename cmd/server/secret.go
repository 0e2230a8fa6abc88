package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

const secretByteLength = 32

var randomRead = rand.Read

func newGenerateSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-secret",
		Short: "Print a random 256-bit hex secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := generateRandomHex(secretByteLength)
			if err != nil {
				return fmt.Errorf("generate secret: %w", err)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), secret); err != nil {
				return fmt.Errorf("write secret: %w", err)
			}
			return nil
		},
	}
}

func generateRandomHex(byteLength int) (string, error) {
	randomBytes := make([]byte, byteLength)
	if _, err := randomRead(randomBytes); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(randomBytes), nil
}
