//
// main.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/markkurossi/okvs/env"
	"github.com/markkurossi/okvs/okvs"
	"github.com/markkurossi/okvs/p2p"
	"github.com/markkurossi/okvs/prf"
	"github.com/markkurossi/okvs/timing"
	"github.com/markkurossi/tabulate"
	"github.com/markkurossi/text/superscript"
	"github.com/markkurossi/text/symbols"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func main() {
	n := flag.Int("n", 1000, "Number of random key-value pairs to encode")
	l := flag.Int("l", 64, "Value length in bits")
	eps := flag.Float64("eps", okvs.DefaultEpsilon, "Expansion parameter")
	lambda := flag.Int("lambda", okvs.DefaultLambda,
		"Statistical security parameter")
	peeler := flag.String("peeler", okvs.PeelerFullTwoCore.String(),
		"Peeler: full, singleton, none")
	paramsFile := flag.String("params", "", "YAML parameter file")
	seed := flag.String("seed", "", "Seed for deterministic randomness")
	workers := flag.Int("workers", 0, "Number of workers")
	attempts := flag.Int("attempts", 3, "Number of encoding attempts")
	output := flag.String("o", "", "Write storage to file")
	input := flag.String("i", "", "Read storage from file and decode keys")
	listen := flag.String("listen", "",
		"Receive storage from the network address and decode keys")
	connect := flag.String("connect", "",
		"Send storage to the network address")
	xfer := flag.Bool("xfer", false,
		"Transfer storage over in-memory connection")
	fTiming := flag.Bool("t", false, "Print timing report")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	log.SetLevel(logrus.InfoLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	kind, err := okvs.ParsePeelerKind(*peeler)
	if err != nil {
		log.Fatal(err)
	}
	params := okvs.Params{
		L:       *l,
		Epsilon: *eps,
		Lambda:  *lambda,
		Peeler:  kind,
	}
	if len(*paramsFile) > 0 {
		pf, err := LoadParams(*paramsFile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pf.Apply(&params, workers, attempts); err != nil {
			log.Fatal(err)
		}
	}

	cfg := &env.Config{
		Log:     log,
		Workers: *workers,
	}
	if len(*seed) > 0 {
		cfg.Rand = prf.NewReader([]byte(*seed))
	}

	ctx := context.Background()

	if len(*input) > 0 {
		gct, s, err := ReadFile(cfg, *input)
		if err != nil {
			log.Fatal(err)
		}
		if err := decodeKeys(os.Stdout, gct, s, flag.Args()); err != nil {
			log.Fatal(err)
		}
		return
	}
	if len(*listen) > 0 {
		err := receiver(ctx, cfg, *listen, *output, *fTiming, flag.Args())
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	var kv map[okvs.StringKey][]byte
	if len(flag.Args()) > 0 {
		kv, err = ParsePairs(params, flag.Args())
	} else {
		kv, err = RandomPairs(cfg, params, *n)
	}
	if err != nil {
		log.Fatal(err)
	}

	t := timing.New()
	cfg.Timing = t

	gct, s, err := okvs.Generate(ctx, cfg, params, kv, *attempts)
	if err != nil {
		log.Fatal(err)
	}

	if err := verify(ctx, gct, s, kv); err != nil {
		log.Fatal(err)
	}
	t.Sample("Verify", fmt.Sprintf("n=%d", len(kv)))

	var stats *p2p.IOStats
	if *xfer {
		st, err := transfer(ctx, cfg, gct, s, kv)
		if err != nil {
			log.Fatal(err)
		}
		stats = &st
		t.Sample("Transfer")
	}
	if len(*connect) > 0 {
		st, err := sender(ctx, *connect, gct, s)
		if err != nil {
			log.Fatal(err)
		}
		stats = &st
		t.Sample("Send")
	}
	if len(*output) > 0 {
		if err := WriteFile(*output, gct, s); err != nil {
			log.Fatal(err)
		}
		t.Sample("Write")
	}

	printParams(os.Stdout, gct)
	if *fTiming {
		t.Print(os.Stdout, stats)
	}
}

// ParsePairs parses key=value pairs where values are hex encoded.
func ParsePairs(params okvs.Params, args []string) (
	map[okvs.StringKey][]byte, error) {

	kv := make(map[okvs.StringKey][]byte)
	for _, arg := range args {
		idx := strings.IndexByte(arg, '=')
		if idx < 0 {
			return nil, fmt.Errorf("invalid pair '%s'", arg)
		}
		key := okvs.StringKey(arg[:idx])
		value, err := hex.DecodeString(arg[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid value for key '%s': %w", key, err)
		}
		if len(value) != params.ByteL() {
			return nil, fmt.Errorf("invalid value for key '%s': got %d bytes, expected %d",
				key, len(value), params.ByteL())
		}
		if _, ok := kv[key]; ok {
			return nil, fmt.Errorf("duplicate key '%s'", key)
		}
		kv[key] = value
	}
	return kv, nil
}

// RandomPairs creates n random key-value pairs. The keys are key0,
// key1, ... and values are random l-bit values.
func RandomPairs(cfg *env.Config, params okvs.Params, n int) (
	map[okvs.StringKey][]byte, error) {

	if n <= 0 {
		return nil, fmt.Errorf("invalid number of pairs %d", n)
	}
	byteL := params.ByteL()
	buf := make([]byte, n*byteL)
	if _, err := io.ReadFull(cfg.GetRandom(), buf); err != nil {
		return nil, err
	}
	kv := make(map[okvs.StringKey][]byte, n)
	for i := 0; i < n; i++ {
		value := buf[i*byteL : (i+1)*byteL]
		if params.L%8 != 0 {
			value[byteL-1] &= byte(1<<(params.L%8)) - 1
		}
		kv[okvs.StringKey(fmt.Sprintf("key%d", i))] = value
	}
	return kv, nil
}

func verify(ctx context.Context, gct *okvs.GCT[okvs.StringKey],
	s *okvs.Storage, kv map[okvs.StringKey][]byte) error {

	keys := make([]okvs.StringKey, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	values, err := gct.DecodeBatch(ctx, s, keys)
	if err != nil {
		return err
	}
	for i, key := range keys {
		if !bytes.Equal(values[i], kv[key]) {
			return fmt.Errorf("decode '%s': got %x, expected %x",
				key, values[i], kv[key])
		}
	}
	return nil
}

func decodeKeys(w io.Writer, gct *okvs.GCT[okvs.StringKey],
	s *okvs.Storage, args []string) error {

	for _, arg := range args {
		value, err := gct.Decode(s, okvs.StringKey(arg))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%x\n", arg, value)
	}
	return nil
}

// transfer sends the storage to a receiver over an in-memory
// connection and verifies the received storage.
func transfer(ctx context.Context, cfg *env.Config,
	gct *okvs.GCT[okvs.StringKey], s *okvs.Storage,
	kv map[okvs.StringKey][]byte) (p2p.IOStats, error) {

	c0, c1 := p2p.Pipe()

	done := make(chan error)
	go func() {
		err := Send(c0, gct, s)
		if cerr := c0.Close(); err == nil {
			err = cerr
		}
		done <- err
	}()

	rgct, rs, err := Receive(cfg, c1)
	c1.Close()
	if serr := <-done; err == nil {
		err = serr
	}
	if err != nil {
		return c0.Stats, err
	}
	return c0.Stats, verify(ctx, rgct, rs, kv)
}

func sender(ctx context.Context, addr string,
	gct *okvs.GCT[okvs.StringKey], s *okvs.Storage) (p2p.IOStats, error) {

	conn, err := p2p.Dial(ctx, addr, 5*time.Second, log)
	if err != nil {
		return p2p.IOStats{}, err
	}
	defer conn.Close()

	if err := Send(conn, gct, s); err != nil {
		return conn.Stats, err
	}
	return conn.Stats, nil
}

func receiver(ctx context.Context, cfg *env.Config, addr, output string,
	printTiming bool, args []string) error {

	listener, err := p2p.Listen(addr, log)
	if err != nil {
		return err
	}
	defer listener.Close()
	log.Infof("listening at %s", listener.Addr())

	conn, err := listener.Accept(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	t := timing.New()
	gct, s, err := Receive(cfg, conn)
	if err != nil {
		return err
	}
	t.Sample("Receive", fmt.Sprintf("m=%d", s.M()))

	if err := decodeKeys(os.Stdout, gct, s, args); err != nil {
		return err
	}
	t.Sample("Decode", fmt.Sprintf("keys=%d", len(args)))

	if len(output) > 0 {
		if err := WriteFile(output, gct, s); err != nil {
			return err
		}
		t.Sample("Write")
	}
	if printTiming {
		t.Print(os.Stdout, &conn.Stats)
	}
	return nil
}

func printParams(w io.Writer, gct *okvs.GCT[okvs.StringKey]) {
	params := gct.Params()

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Param").SetAlign(tabulate.ML)
	tab.Header("Value").SetAlign(tabulate.MR)

	add := func(name, value string) {
		row := tab.Row()
		row.Column(name)
		row.Column(value)
	}
	add("n", fmt.Sprintf("%d", gct.N()))
	add("l", fmt.Sprintf("%d", params.L))
	add("ε", fmt.Sprintf("%v", params.Epsilon))
	add(fmt.Sprintf("%c", symbols.Lambda),
		fmt.Sprintf("%d (2⁻%s)", params.Lambda,
			superscript.Itoa(params.Lambda)))
	add("peeler", params.Peeler.String())
	add("lm", fmt.Sprintf("%d", gct.Lm()))
	add("rm", fmt.Sprintf("%d", gct.Rm()))
	add("m", fmt.Sprintf("%d", gct.M()))
	add("size", timing.FileSize(gct.M()*gct.ByteL()).String())
	add("rate", fmt.Sprintf("%.3f", float64(gct.N())/float64(gct.M())))

	tab.Print(w)
}
