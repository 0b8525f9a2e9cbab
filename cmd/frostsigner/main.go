// Command frostsigner drives the FROST participant and coordinator steps from
// the command line, exchanging JSON record files.
//
// Usage:
//
//	frostsigner [-config file] [-log-level level] <command> [flags]
//
// Commands: dealer, commit, package, sign, aggregate, verify. Builds with
// -tags rerandomized add randomizer and randomized-key.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/f3rmion/frostsigner/coordinator"
	"github.com/f3rmion/frostsigner/participant"
)

type command func(cfg *Config, log zerolog.Logger, args []string) error

var commands = map[string]command{
	"dealer":  runDealer,
	"commit":  runCommit,
	"package": runPackage,
	"verify":  runVerify,
}

func main() {
	global := flag.NewFlagSet("frostsigner", flag.ExitOnError)
	configPath := global.String("config", "", "path to JSON config file")
	logLevel := global.String("log-level", "", "log level, overrides the config file")
	global.Usage = usage(global)
	_ = global.Parse(os.Args[1:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log level: %v\n", err)
		os.Exit(2)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()
	participant.SetLogger(log)

	args := global.Args()
	if len(args) == 0 {
		global.Usage()
		os.Exit(2)
	}
	run, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		global.Usage()
		os.Exit(2)
	}
	if err := run(cfg, log.With().Str("command", args[0]).Logger(), args[1:]); err != nil {
		log.Error().Err(err).Str("command", args[0]).Msg("failed")
		os.Exit(1)
	}
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "usage: frostsigner [flags] <%s> [command flags]\n", strings.Join(names, "|"))
		fs.PrintDefaults()
	}
}

func runDealer(cfg *Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("dealer", flag.ContinueOnError)
	minSigners := fs.Int("min", 2, "minimum number of signers")
	maxSigners := fs.Int("max", 3, "number of participants")
	out := fs.String("out", cfg.OutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	shares, pub, err := coordinator.TrustedDealerKeygen(*minSigners, *maxSigners)
	if err != nil {
		return err
	}
	for _, s := range shares {
		path, err := writeJSON(*out, "share-"+s.Identifier.Data+".json", s)
		if err != nil {
			return err
		}
		log.Info().Str("identifier", s.Identifier.Data).Str("path", path).Msg("secret share written")
	}
	path, err := writeJSON(*out, "public.json", pub)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("public key package written")
	return nil
}

func loadSecretShare(path string) (participant.SecretKeyShare, error) {
	var share participant.SecretKeyShare
	if path == "" {
		return share, errors.New("no secret share given")
	}
	err := readJSON(path, &share)
	return share, err
}

func runCommit(cfg *Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("commit", flag.ContinueOnError)
	sharePath := fs.String("share", cfg.SecretShare, "secret share file")
	out := fs.String("out", cfg.OutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	share, err := loadSecretShare(*sharePath)
	if err != nil {
		return err
	}
	round1, err := participant.Commit(share)
	if err != nil {
		return err
	}
	id := round1.Commitments.Identifier.Data
	if _, err := writeJSON(*out, "nonces-"+id+".json", round1.Nonces); err != nil {
		return err
	}
	path, err := writeJSON(*out, "commitments-"+id+".json", round1.Commitments)
	if err != nil {
		return err
	}
	log.Info().Str("identifier", id).Str("path", path).Msg("commitments written; keep the nonces file private and use it once")
	return nil
}

func runPackage(cfg *Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("package", flag.ContinueOnError)
	message := fs.String("message", "", "message to sign")
	commitmentFiles := fs.String("commitments", "", "comma-separated commitment files")
	out := fs.String("out", cfg.OutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var commitments []participant.SigningCommitments
	for _, path := range splitList(*commitmentFiles) {
		var c participant.SigningCommitments
		if err := readJSON(path, &c); err != nil {
			return err
		}
		commitments = append(commitments, c)
	}
	pkg, err := coordinator.NewSigningPackage(coordinator.Message{Data: []byte(*message)}, commitments)
	if err != nil {
		return err
	}
	path, err := writeJSON(*out, "signing_package.json", pkg)
	if err != nil {
		return err
	}
	log.Info().Int("signers", len(commitments)).Str("path", path).Msg("signing package written")
	return nil
}

func loadSignRound2Inputs(pkgPath, noncesPath, sharePath string) (
	participant.SigningPackage, participant.SigningNonces, participant.KeyPackage, error,
) {
	var (
		pkg    participant.SigningPackage
		nonces participant.SigningNonces
	)
	if err := readJSON(pkgPath, &pkg); err != nil {
		return pkg, nonces, participant.KeyPackage{}, err
	}
	if err := readJSON(noncesPath, &nonces); err != nil {
		return pkg, nonces, participant.KeyPackage{}, err
	}
	share, err := loadSecretShare(sharePath)
	if err != nil {
		return pkg, nonces, participant.KeyPackage{}, err
	}
	kp, err := share.IntoKeyPackage()
	return pkg, nonces, kp, err
}

func loadAggregateInputs(pkgPath, shareFiles, publicPath string) (
	participant.SigningPackage, []participant.SignatureShare, *coordinator.PublicKeyPackage, error,
) {
	var pkg participant.SigningPackage
	if err := readJSON(pkgPath, &pkg); err != nil {
		return pkg, nil, nil, err
	}
	var shares []participant.SignatureShare
	for _, path := range splitList(shareFiles) {
		var s participant.SignatureShare
		if err := readJSON(path, &s); err != nil {
			return pkg, nil, nil, err
		}
		shares = append(shares, s)
	}
	pub := &coordinator.PublicKeyPackage{}
	if err := readJSON(publicPath, pub); err != nil {
		return pkg, nil, nil, err
	}
	return pkg, shares, pub, nil
}

func runVerify(_ *Config, log zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	message := fs.String("message", "", "signed message")
	sigPath := fs.String("signature", "signature.json", "signature file")
	publicPath := fs.String("public", "public.json", "public key package file")
	keyPath := fs.String("key", "", "verifying key file, overrides -public")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var sig coordinator.Signature
	if err := readJSON(*sigPath, &sig); err != nil {
		return err
	}
	var key []byte
	if *keyPath != "" {
		var k verifyingKeyRecord
		if err := readJSON(*keyPath, &k); err != nil {
			return err
		}
		key = k.Data
	} else {
		var pub coordinator.PublicKeyPackage
		if err := readJSON(*publicPath, &pub); err != nil {
			return err
		}
		key = pub.VerifyingKey
	}
	if err := coordinator.Verify(coordinator.Message{Data: []byte(*message)}, sig, key); err != nil {
		return err
	}
	log.Info().Msg("signature is valid")
	return nil
}

// verifyingKeyRecord is a standalone serialized verifying key.
type verifyingKeyRecord struct {
	Data []byte `json:"data"`
}
