// Command ptpctl is a small CLI over the ptp-codec module: convert
// opcode scripts between their wire hex form and the human-readable
// TOML/JSON surface (§6.2), and run an opcode script standalone. It
// has no commands for whole packets.
package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/urfave/cli"

	"github.com/plabble/ptp-codec/bitio"
	"github.com/plabble/ptp-codec/cryptoalg"
	"github.com/plabble/ptp-codec/humanfmt"
	"github.com/plabble/ptp-codec/pcolor"
	"github.com/plabble/ptp-codec/plog"
	"github.com/plabble/ptp-codec/script"

	"github.com/op/go-logging"
)

func printFatal(msg string, args ...interface{}) {
	printErr(msg, args...)
	os.Exit(1)
}

func printErr(msg string, args ...interface{}) {
	os.Stderr.WriteString(pcolor.Red(fmt.Sprintf(msg, args...)) + "\n")
}

func readInput(c *cli.Context) ([]byte, error) {
	if path := c.String("in"); path != "" {
		return ioutil.ReadFile(path)
	}
	return ioutil.ReadAll(os.Stdin)
}

func writeOutput(c *cli.Context, data []byte) error {
	if path := c.String("out"); path != "" {
		return ioutil.WriteFile(path, data, 0644)
	}
	_, err := os.Stdout.Write(data)
	return err
}

// decodeScriptCommand parses an opcode script from TOML or JSON and
// prints its equivalent lowercase-hex wire bytes.
func decodeScriptCommand(c *cli.Context) error {
	in, err := readInput(c)
	if err != nil {
		printFatal("read input: %s", err)
	}
	var h humanfmt.HumanScript
	decodeErr := humanfmt.UnmarshalTOML(in, &h)
	if decodeErr != nil {
		if jsonErr := humanfmt.UnmarshalJSON(in, &h); jsonErr != nil {
			printFatal("could not parse as TOML (%s) or JSON (%s)", decodeErr, jsonErr)
		}
	}
	s, err := humanfmt.ToScript(h)
	if err != nil {
		printFatal("%s", err)
	}
	w := bitio.NewWriter()
	if err := script.EncodeScript(w, s); err != nil {
		printFatal("encode script: %s", err)
	}
	return writeOutput(c, []byte(hex.EncodeToString(w.Bytes())+"\n"))
}

// encodeScriptCommand parses wire hex for an opcode script and prints
// its TOML mirror.
func encodeScriptCommand(c *cli.Context) error {
	in, err := readInput(c)
	if err != nil {
		printFatal("read input: %s", err)
	}
	raw, err := hex.DecodeString(trimNewline(in))
	if err != nil {
		printFatal("decode hex: %s", err)
	}
	s, err := script.DecodeScript(bitio.NewReader(raw))
	if err != nil {
		printFatal("decode script: %s", err)
	}
	out, err := humanfmt.MarshalTOML(humanfmt.FromScript(s))
	if err != nil {
		printFatal("marshal toml: %s", err)
	}
	return writeOutput(c, out)
}

// runScriptCommand evaluates a TOML/JSON opcode script against a
// no-op bucket facade and prints the resulting stack top, if any.
func runScriptCommand(c *cli.Context) error {
	in, err := readInput(c)
	if err != nil {
		printFatal("read input: %s", err)
	}
	var h humanfmt.HumanScript
	if err := humanfmt.UnmarshalTOML(in, &h); err != nil {
		if jsonErr := humanfmt.UnmarshalJSON(in, &h); jsonErr != nil {
			printFatal("could not parse script: %s / %s", err, jsonErr)
		}
	}
	s, err := humanfmt.ToScript(h)
	if err != nil {
		printFatal("%s", err)
	}

	vm, err := script.New(s, script.DefaultSettings(), cryptoalg.NewDefaultRegistry(), script.NoBucketFacade{})
	if err != nil {
		printFatal("build vm: %s", err)
	}
	result, err := vm.Run()
	if err != nil {
		printFatal("run: %s", err)
	}
	if result == nil {
		fmt.Println(pcolor.Yellow("(no result)"))
		return nil
	}
	fmt.Println(pcolor.Green(fmt.Sprintf("%+v", *result)))
	return nil
}

func trimNewline(b []byte) string {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return string(b)
}

func main() {
	plog.Setup("ptpctl", logging.NOTICE)

	app := cli.NewApp()
	app.Name = "ptpctl"
	app.Usage = "inspect and evaluate Plabble protocol packets and scripts"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{}
	app.Commands = []cli.Command{
		{
			Name:  "decode-script",
			Usage: "ptpctl decode-script --in script.toml -- print the wire hex for a TOML/JSON opcode script",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "in"},
				cli.StringFlag{Name: "out"},
			},
			Action: decodeScriptCommand,
		},
		{
			Name:  "encode-script",
			Usage: "ptpctl encode-script --in script.hex -- print the TOML mirror of a wire-hex opcode script",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "in"},
				cli.StringFlag{Name: "out"},
			},
			Action: encodeScriptCommand,
		},
		{
			Name:  "run-script",
			Usage: "ptpctl run-script --in script.toml -- evaluate a script and print its result",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "in"},
			},
			Action: runScriptCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		printFatal("%s", err)
	}
}
