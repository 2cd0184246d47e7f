package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nooize/paysdk"
	gpay "github.com/nooize/paysdk/google-pay"
	"github.com/nooize/paysdk/google-pay/ecv2"
	"github.com/nooize/paysdk/google-pay/sandbox"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	optionId    int
	amount      string
	currency    string
	recurring   bool
	decline     bool
	openToken   bool
	waitTimeout time.Duration

	gatewayKeyPath string
	rootKeysPath   string
)

var gpayCmd = &cobra.Command{
	Use:   "gpay",
	Short: "Google Pay integration against the sandbox wallet",
}

var gpayCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether Google Pay is available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newSandboxWallet()
		if err != nil {
			return err
		}
		g, err := newIntegration(w.client, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), g.CheckGooglePayAvailable())
		return nil
	},
}

var gpayTokenizeCmd = &cobra.Command{
	Use:   "tokenize",
	Short: "Tokenize a payment option through the sandbox wallet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		charge, err := paysdk.NewAmount(amount, currency)
		if err != nil {
			return err
		}
		w, err := newSandboxWallet()
		if err != nil {
			return err
		}
		g, err := newIntegration(w.client, paysdk.PaymentOptions{{ID: optionId, Charge: charge}})
		if err != nil {
			return err
		}
		dispatcher := gpay.NewDispatcher()
		if err := dispatcher.Register(gpay.RequestCode, g.Handler()); err != nil {
			return err
		}

		request, err := g.StartTokenization(sandbox.NewHost(w.client, dispatcher, !decline), optionId, recurring)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
		defer cancel()
		result, err := request.Wait(ctx)
		if err != nil {
			g.Reset()
			return err
		}

		out := map[string]interface{}{"request": request.Id, "result": result}
		if success, ok := result.(gpay.TokenizationSuccess); ok && openToken {
			token, err := w.opener.Open([]byte(success.PaymentOptionInfo.PaymentMethodToken))
			if err != nil {
				return errors.Wrap(err, "open token")
			}
			out["token"] = token
		}
		return printJSON(cmd, out)
	},
}

var gpayOpenCmd = &cobra.Command{
	Use:   "open token-file",
	Short: "Verify and decrypt an ECv2 payment method token as the gateway",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		opener, err := ecv2.NewOpener(ecv2.GatewayRecipientId(cfg.Gateway),
			ecv2.PrivateKeyLocation(gatewayKeyPath),
			ecv2.RootKeysLocation(rootKeysPath),
		)
		if err != nil {
			return err
		}
		token, err := opener.Open(data)
		if err != nil {
			return err
		}
		return printJSON(cmd, token)
	},
}

type sandboxWallet struct {
	client *sandbox.Client
	opener *ecv2.Opener
}

// newSandboxWallet uses configured sandbox keys, missing keys are generated for the run
func newSandboxWallet() (*sandboxWallet, error) {
	rootKey, err := sandboxKey(cfg.Sandbox.RootKey)
	if err != nil {
		return nil, errors.Wrap(err, "sandbox root key")
	}
	gatewayKey, err := sandboxKey(cfg.Sandbox.GatewayKey)
	if err != nil {
		return nil, errors.Wrap(err, "sandbox gateway key")
	}
	sealer, err := ecv2.NewSealer(rootKey)
	if err != nil {
		return nil, err
	}
	client, err := sandbox.New(sealer, &gatewayKey.PublicKey,
		sandbox.Available(cfg.Sandbox.Available),
		sandbox.Logger(logger),
	)
	if err != nil {
		return nil, err
	}
	opener, err := ecv2.NewOpener(ecv2.GatewayRecipientId(cfg.Gateway),
		ecv2.PrivateKey(gatewayKey),
		ecv2.RootKeys(sealer.RootSigningKey()),
	)
	if err != nil {
		return nil, err
	}
	return &sandboxWallet{client: client, opener: opener}, nil
}

func sandboxKey(path string) (*ecdsa.PrivateKey, error) {
	if len(path) == 0 {
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}
	return paysdk.LoadPemEcdsaPrivateKey(path)
}

func newIntegration(client *sandbox.Client, options paysdk.PaymentOptions) (*gpay.Integration, error) {
	if len(cfg.ShopId) == 0 {
		return nil, errors.New("shop id not defined, set PAYSDK_SHOP_ID")
	}
	if options == nil {
		options = paysdk.PaymentOptions{}
	}
	logger.Debug("google pay integration", zap.String("shopId", cfg.ShopId), zap.Bool("test", cfg.TestEnvironment))
	return gpay.New(cfg.ShopId, client.Provider(), options,
		gpay.UseTestEnvironment(cfg.TestEnvironment),
		gpay.Gateway(cfg.Gateway),
		gpay.AvailabilityTimeout(cfg.AvailabilityTimeout),
		gpay.Logger(logger),
	)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	gpayTokenizeCmd.Flags().IntVarP(&optionId, "option", "o", 1, "Payment option id")
	gpayTokenizeCmd.Flags().StringVarP(&amount, "amount", "a", "100.00", "Charge amount")
	gpayTokenizeCmd.Flags().StringVar(&currency, "currency", "RUB", "Charge currency")
	gpayTokenizeCmd.Flags().BoolVar(&recurring, "recurring", false, "Recurring payments possible")
	gpayTokenizeCmd.Flags().BoolVar(&decline, "decline", false, "Decline in the wallet UI")
	gpayTokenizeCmd.Flags().BoolVar(&openToken, "open", false, "Decrypt the issued token as the gateway")
	gpayTokenizeCmd.Flags().DurationVar(&waitTimeout, "wait", 30*time.Second, "Time to wait for the result")

	gpayOpenCmd.Flags().StringVar(&gatewayKeyPath, "key", "", "Gateway private key pem")
	gpayOpenCmd.Flags().StringVar(&rootKeysPath, "root-keys", "", "Root signing keys json")
	_ = gpayOpenCmd.MarkFlagRequired("key")
	_ = gpayOpenCmd.MarkFlagRequired("root-keys")

	gpayCmd.AddCommand(gpayCheckCmd, gpayTokenizeCmd, gpayOpenCmd)
	rootCmd.AddCommand(gpayCmd)
}
