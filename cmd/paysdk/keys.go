package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nooize/paysdk"
	"github.com/nooize/paysdk/google-pay/ecv2"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys dir",
	Short: "Generate sandbox root and gateway keys",
	Long: `Writes root.pem and gateway.pem private keys and keys.json with the public root key.
Point PAYSDK_SANDBOX_ROOT_KEY and PAYSDK_SANDBOX_GATEWAY_KEY to the pem files,
gpay open takes gateway.pem and keys.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
		root, err := writeKey(filepath.Join(dir, "root.pem"))
		if err != nil {
			return err
		}
		if _, err := writeKey(filepath.Join(dir, "gateway.pem")); err != nil {
			return err
		}
		data, err := ecv2.MarshalRootSigningKeys(ecv2.NewRootSigningKey(&root.PublicKey, time.Time{}))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, "keys.json"), data, 0600); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "keys written to %s\n", dir)
		return nil
	},
}

func writeKey(path string) (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	data, err := paysdk.MarshalPemEcdsaPrivateKey(key)
	if err != nil {
		return nil, err
	}
	return key, os.WriteFile(path, data, 0600)
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
