package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/parity-oracle/internal/params"
	"github.com/taurusgroup/parity-oracle/pkg/bisection"
	"github.com/taurusgroup/parity-oracle/pkg/oracle"
	"github.com/taurusgroup/parity-oracle/pkg/pool"
	"github.com/taurusgroup/parity-oracle/pkg/rsa"
)

// secret is encrypted and recovered when no other input is given.
const secret = "VGhhdCdzIHdoeSBJIGZvdW5kIHlvdSBkb24ndCBwbGF5IGFyb3VuZCB3aXRoIHRoZSBGdW5reSBDb2xkIE1lZGluYQ=="

var (
	bits    = flag.Int("bits", params.BitsRSA, "size of the RSA modulus")
	workers = flag.Int("workers", 0, "number of workers used for key generation, 0 for one per CPU")
	stdin   = flag.Bool("stdin", false, "read base64 encoded messages from standard input, one per line")
	quiet   = flag.Bool("quiet", false, "only print the recovered plaintext")
	verbose = flag.Bool("v", false, "log every round")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).Level(level).With().Timestamp().Logger()

	if err := run(log, os.Stdout); err != nil {
		log.Error().Err(err).Msg("attack failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, out io.Writer) error {
	messages, err := inputs()
	if err != nil {
		return err
	}

	pl := pool.NewPool(*workers)
	defer pl.TearDown()

	start := time.Now()
	pk, sk, err := rsa.KeyGen(rand.Reader, pl, *bits)
	if err != nil {
		return err
	}
	log.Info().
		Int("bits", pk.BitLen()).
		Str("key", pk.Fingerprint()).
		Dur("took", time.Since(start)).
		Msg("generated RSA key")

	network := newNetwork(oracle.NewServer(oracle.New(sk), log))
	defer network.Close()
	client := oracle.NewClient(network.Send)

	d := bisection.New(client, pk,
		bisection.WithLogger(log.With().Str("key", pk.Fingerprint()).Logger()),
		bisection.WithProgress(func(s *bisection.Step) {
			if !*quiet {
				fmt.Fprintf(out, "Iteration %d: %q\n", s.Round, s.Candidate)
			}
		}),
	)

	for _, encoded := range messages {
		if err = attack(d, pk, encoded, out); err != nil {
			return err
		}
	}
	log.Info().Uint64("queries", client.Queries()).Msg("done")
	return nil
}

func attack(d *bisection.Decryptor, pk *rsa.PublicKey, encoded string, out io.Writer) error {
	msg, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	c, err := pk.EncBytes(msg)
	if err != nil {
		return err
	}
	recovered, err := d.Decrypt(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Recovered: %q\n", recovered)
	return nil
}

// inputs returns the base64 messages to attack.
func inputs() ([]string, error) {
	if !*stdin {
		if flag.NArg() > 0 {
			return flag.Args(), nil
		}
		return []string{secret}, nil
	}
	var messages []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			messages = append(messages, line)
		}
	}
	return messages, scanner.Err()
}
