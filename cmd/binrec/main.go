// Command binrec generates reference wire vectors for the sample record
// shapes and inspects hex-encoded documents against them.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/kungfusheep/binrec"
)

// The simple shape mirrors the SimpleObject layout exercised by the test suite;
// the user shape adds lists, a map and a nullable nested record. Vectors
// produced here can be checked against any other implementation of the format.

type Address struct {
	Street  string
	City    string
	Country string
}

type User struct {
	ID       int32
	Username string
	Email    string
	Age      int64
	Active   bool
	Score    float64
	Tags     []string
	Ratings  []int32
	Counters map[string]int32
	Address  *Address
}

type Simple struct {
	ID     int32
	Name   string
	Active bool
	D      float64
	F      float32
	L      int64
	S      int16
}

var log = logrus.New()

// shape bundles a sample record with its codec behind a uniform interface.
type shape struct {
	name    string
	sample  func() ([]byte, any, error)
	inspect func(document []byte) (string, any, error)
}

func shapes() ([]shape, error) {
	simple, err := binrec.NewCodec[Simple]()
	if err != nil {
		return nil, err
	}
	user, err := binrec.NewCodec[User]()
	if err != nil {
		return nil, err
	}

	return []shape{
		{
			name: "simple",
			sample: func() ([]byte, any, error) {
				v := Simple{ID: 42, Name: "Hi", Active: true, D: 1.5, F: 0.25, L: 7, S: 3}
				return simple.Encode(&v), v, nil
			},
			inspect: func(document []byte) (string, any, error) {
				tree, err := simple.Sprint(document)
				if err != nil {
					return "", nil, err
				}
				v, err := simple.Decode(document)
				return tree, v, err
			},
		},
		{
			name: "user",
			sample: func() ([]byte, any, error) {
				v := User{
					ID:       7,
					Username: "sample",
					Email:    "sample@example.com",
					Age:      30,
					Active:   true,
					Score:    99.5,
					Tags:     []string{"go", "serialization"},
					Ratings:  []int32{5, 4, 5},
					Counters: map[string]int32{"logins": 12},
					Address:  &Address{Street: "1 Main St", City: "Springfield", Country: "US"},
				}
				return user.Encode(&v), v, nil
			},
			inspect: func(document []byte) (string, any, error) {
				tree, err := user.Sprint(document)
				if err != nil {
					return "", nil, err
				}
				v, err := user.Decode(document)
				return tree, v, err
			},
		},
	}, nil
}

func main() {
	app := &cli.App{
		Name:  "binrec",
		Usage: "reference vectors and document inspection for the binrec wire format",
		Commands: []*cli.Command{
			{
				Name:  "vectors",
				Usage: "emit reference wire vectors for the sample shapes",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "emit vectors as a JSON object"},
				},
				Action: runVectors,
			},
			{
				Name:      "inspect",
				Usage:     "decode a hex document against a sample shape",
				ArgsUsage: "<hex>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "shape", Value: "simple", Usage: "sample shape to decode against"},
				},
				Action: runInspect,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runVectors(ctx *cli.Context) error {
	all, err := shapes()
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		out := make(map[string]string, len(all))
		for _, s := range all {
			document, _, err := s.sample()
			if err != nil {
				return err
			}
			out[s.name] = hex.EncodeToString(document)
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	for _, s := range all {
		document, v, err := s.sample()
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", s.name, hex.EncodeToString(document))
		log.WithField("shape", s.name).Debugf("sample value: %s", spew.Sdump(v))
	}
	return nil
}

func runInspect(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one hex document argument")
	}

	document, err := hex.DecodeString(strings.TrimSpace(ctx.Args().First()))
	if err != nil {
		return fmt.Errorf("invalid hex input: %w", err)
	}

	all, err := shapes()
	if err != nil {
		return err
	}

	name := ctx.String("shape")
	for _, s := range all {
		if s.name != name {
			continue
		}

		tree, v, err := s.inspect(document)
		if err != nil {
			log.WithField("shape", name).WithError(err).Error("decode failed")
			return err
		}
		fmt.Print(tree)
		fmt.Print(spew.Sdump(v))
		return nil
	}

	return fmt.Errorf("unknown shape %q", name)
}
