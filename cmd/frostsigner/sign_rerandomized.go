//go:build rerandomized

package main

import (
	"flag"

	"github.com/rs/zerolog"

	"github.com/f3rmion/frostsigner/coordinator"
	"github.com/f3rmion/frostsigner/participant"
)

func init() {
	commands["sign"] = runSign
	commands["aggregate"] = runAggregate
	commands["randomizer"] = runRandomizer
	commands["randomized-key"] = runRandomizedKey
}

func runRandomizer(cfg *Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("randomizer", flag.ContinueOnError)
	out := fs.String("out", cfg.OutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rnd, err := coordinator.GenerateRandomizer()
	if err != nil {
		return err
	}
	path, err := writeJSON(*out, "randomizer.json", rnd)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("randomizer written")
	return nil
}

func runRandomizedKey(cfg *Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("randomized-key", flag.ContinueOnError)
	publicPath := fs.String("public", "public.json", "public key package file")
	rndPath := fs.String("randomizer", "randomizer.json", "randomizer file")
	out := fs.String("out", cfg.OutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var (
		pub coordinator.PublicKeyPackage
		rnd participant.Randomizer
	)
	if err := readJSON(*publicPath, &pub); err != nil {
		return err
	}
	if err := readJSON(*rndPath, &rnd); err != nil {
		return err
	}
	key, err := coordinator.RandomizedVerifyingKey(&pub, rnd)
	if err != nil {
		return err
	}
	path, err := writeJSON(*out, "randomized_key.json", verifyingKeyRecord{Data: key})
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("randomized verifying key written")
	return nil
}

func runSign(cfg *Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	pkgPath := fs.String("package", "signing_package.json", "signing package file")
	noncesPath := fs.String("nonces", "", "nonces file from commit")
	sharePath := fs.String("share", cfg.SecretShare, "secret share file")
	rndPath := fs.String("randomizer", "randomizer.json", "randomizer file")
	out := fs.String("out", cfg.OutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pkg, nonces, kp, err := loadSignRound2Inputs(*pkgPath, *noncesPath, *sharePath)
	if err != nil {
		return err
	}
	var rnd participant.Randomizer
	if err := readJSON(*rndPath, &rnd); err != nil {
		return err
	}
	share, err := participant.Sign(pkg, nonces, kp, rnd)
	if err != nil {
		return err
	}
	path, err := writeJSON(*out, "signature_share-"+share.Identifier.Data+".json", share)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("signature share written; delete the nonces file")
	return nil
}

func runAggregate(cfg *Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("aggregate", flag.ContinueOnError)
	pkgPath := fs.String("package", "signing_package.json", "signing package file")
	shareFiles := fs.String("shares", "", "comma-separated signature share files")
	publicPath := fs.String("public", "public.json", "public key package file")
	rndPath := fs.String("randomizer", "randomizer.json", "randomizer file")
	out := fs.String("out", cfg.OutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pkg, shares, pub, err := loadAggregateInputs(*pkgPath, *shareFiles, *publicPath)
	if err != nil {
		return err
	}
	var rnd participant.Randomizer
	if err := readJSON(*rndPath, &rnd); err != nil {
		return err
	}
	sig, err := coordinator.Aggregate(pkg, shares, pub, rnd)
	if err != nil {
		return err
	}
	path, err := writeJSON(*out, "signature.json", sig)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("signature written")
	return nil
}
