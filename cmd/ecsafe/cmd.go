package main

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rafaelescrich/go-ecsafe"
	"github.com/rafaelescrich/go-ecsafe/curve"
	"github.com/rafaelescrich/go-ecsafe/group"
	"github.com/rafaelescrich/go-ecsafe/internal/logging"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

const envPrefix = "ECSAFE"

var errInvalidSignature = errors.New("signature is invalid")

var hashes = map[string]func() hash.Hash{
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

func newRootCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	root := &cobra.Command{
		Use:          "ecsafe",
		Short:        "Constant-time ECDH and ECDSA over the NIST prime curves",
		SilenceUsage: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("curve", curve.Secp256r1.String(), "curve name (secp192r1 ... secp521r1, secp256k1)")
	flags.String("mode", scalar.NAF.String(), "scalar digit encoding: binary or naf")
	flags.String("coords", group.Projective.String(), "coordinate system: affine or projective")
	flags.Bool("window", false, "use fixed-window base point multiplication")
	flags.Bool("final", false, "emit only the x coordinate of shared secrets")
	flags.String("log-format", logging.Console, "log encoding: console, json or logfmt")
	flags.String("log-level", "warn", "log level")
	bind(v, flags, map[string]string{
		"curve":      "curve",
		"mode":       "mode",
		"coords":     "coords",
		"window":     "window",
		"final":      "final",
		"log.format": "log-format",
		"log.level":  "log-level",
	})

	root.AddCommand(
		keygenCmd(v, out),
		ecdhCmd(v, out),
		signCmd(v, out),
		verifyCmd(v, out),
	)
	return root
}

func bind(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func parseCoords(s string) (group.Coords, error) {
	switch strings.ToLower(s) {
	case "affine":
		return group.Affine, nil
	case "projective", "":
		return group.Projective, nil
	default:
		return 0, errors.Errorf("unknown coordinate system %q", s)
	}
}

func newContext(v *viper.Viper) (*ecsafe.Context, *zap.Logger, error) {
	logger, err := logging.New(logging.Config{
		Format: v.GetString("log.format"),
		Level:  v.GetString("log.level"),
	})
	if err != nil {
		return nil, nil, err
	}

	id, err := curve.ParseID(v.GetString("curve"))
	if err != nil {
		return nil, nil, err
	}
	mode, err := scalar.ParseMode(v.GetString("mode"))
	if err != nil {
		return nil, nil, err
	}
	coords, err := parseCoords(v.GetString("coords"))
	if err != nil {
		return nil, nil, err
	}

	ctx, err := ecsafe.New(
		ecsafe.WithCurve(id),
		ecsafe.WithDigitMode(mode),
		ecsafe.WithCoords(coords),
		ecsafe.WithFixedWindow(v.GetBool("window")),
		ecsafe.WithFinalEncoding(v.GetBool("final")),
		ecsafe.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return ctx, logger, nil
}

func hexFlag(cmd *cobra.Command, name string) ([]byte, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, errors.Errorf("--%s is required", name)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding --%s", name)
	}
	return b, nil
}

func keygenCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, logger, err := newContext(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			priv, err := ctx.GenerateKey()
			if err != nil {
				return err
			}
			defer priv.Clear()
			logger.Info("generated key pair", logging.Redacted("private"))
			fmt.Fprintf(out, "private %x\npublic %x\n", priv.Bytes(), priv.Public().Bytes())
			return nil
		},
	}
}

func ecdhCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecdh",
		Short: "Derive the shared secret with a peer's public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, logger, err := newContext(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			key, err := hexFlag(cmd, "private")
			if err != nil {
				return err
			}
			peer, err := hexFlag(cmd, "peer")
			if err != nil {
				return err
			}
			priv, err := ctx.PrivateKeyFromBytes(key)
			if err != nil {
				return err
			}
			defer priv.Clear()

			shared, err := ctx.Decapsulate(priv, peer)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%x\n", shared)
			return nil
		},
	}
	cmd.Flags().String("private", "", "local private key")
	cmd.Flags().String("peer", "", "peer public key x‖y")
	return cmd
}

func signCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, logger, err := newContext(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			key, err := hexFlag(cmd, "private")
			if err != nil {
				return err
			}
			digest, err := hexFlag(cmd, "digest")
			if err != nil {
				return err
			}
			priv, err := ctx.PrivateKeyFromBytes(key)
			if err != nil {
				return err
			}
			defer priv.Clear()

			var sig []byte
			if name, _ := cmd.Flags().GetString("deterministic"); name != "" {
				h, ok := hashes[strings.ToLower(name)]
				if !ok {
					return errors.Errorf("unknown hash %q", name)
				}
				sig, err = ctx.SignDeterministic(priv, h, digest)
			} else {
				sig, err = ctx.Sign(priv, digest)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%x\n", sig)
			return nil
		},
	}
	cmd.Flags().String("private", "", "private key")
	cmd.Flags().String("digest", "", "message digest")
	cmd.Flags().String("deterministic", "", "derive the nonce per RFC 6979 with this hash (sha224, sha256, sha384, sha512)")
	return cmd
}

func verifyCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature over a digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, logger, err := newContext(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			pubBytes, err := hexFlag(cmd, "public")
			if err != nil {
				return err
			}
			digest, err := hexFlag(cmd, "digest")
			if err != nil {
				return err
			}
			sig, err := hexFlag(cmd, "signature")
			if err != nil {
				return err
			}
			pub, err := ctx.PublicKeyFromBytes(pubBytes)
			if err != nil {
				return err
			}
			if !ctx.Verify(pub, digest, sig) {
				fmt.Fprintln(out, "invalid")
				return errInvalidSignature
			}
			fmt.Fprintln(out, "valid")
			return nil
		},
	}
	cmd.Flags().String("public", "", "public key x‖y")
	cmd.Flags().String("digest", "", "message digest")
	cmd.Flags().String("signature", "", "signature r‖s")
	return cmd
}
