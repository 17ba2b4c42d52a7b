package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"vhost-gpu-go/pkg/log"
	"vhost-gpu-go/pkg/protocol"
	"vhost-gpu-go/pkg/protocol/spec"

	"github.com/urfave/cli/v2"
)

// gpuHeader is a header tagged with the backend-to-frontend code set, the
// direction carried on the GPU control socket.
type gpuHeader = protocol.Header[spec.BackendReq]

var (
	decodeCommand = &cli.Command{
		Name:      "decode",
		Usage:     "decode a hex-encoded control header",
		ArgsUsage: "<hex>",
		Action:    decodeCmd,
	}

	encodeCommand = &cli.Command{
		Name:  "encode",
		Usage: "build a control header and print its wire bytes as hex",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "request",
				Usage:    "request code, by name (e.g. CursorPos) or number",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "reply",
				Usage: "set the reply flag",
			},
			&cli.UintFlag{
				Name:  "size",
				Usage: "declared payload length in bytes",
			},
		},
		Action: encodeCmd,
	}

	matchCommand = &cli.Command{
		Name:      "match",
		Usage:     "check whether the second header is the reply for the first",
		ArgsUsage: "<request-hex> <reply-hex>",
		Action:    matchCmd,
	}
)

func main() {
	app := &cli.App{
		Name:  "gpuhdr",
		Usage: "inspect vhost-user GPU control-channel headers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-db",
				Usage: "write logs to this SQLite database instead of the console",
			},
		},
		Before: func(c *cli.Context) error {
			if path := c.String("log-db"); path != "" {
				return log.Init(path)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return log.Close()
		},
		Commands: []*cli.Command{decodeCommand, encodeCommand, matchCommand},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("gpuhdr failed")
	}
}

// parseHeader decodes hex input into a header plus any trailing bytes the
// dump carried after the 12-byte prefix.
func parseHeader(arg string) (gpuHeader, []byte, error) {
	s := strings.TrimPrefix(strings.ReplaceAll(arg, " ", ""), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return gpuHeader{}, nil, fmt.Errorf("bad hex input: %w", err)
	}

	var h gpuHeader
	if err := h.UnmarshalBinary(raw); err != nil {
		return gpuHeader{}, nil, err
	}
	return h, raw[protocol.HeaderSize:], nil
}

func parseBackendReq(s string) (spec.BackendReq, error) {
	if n, err := strconv.ParseUint(s, 0, 32); err == nil {
		return spec.BackendReq(n), nil
	}
	for r := spec.GetProtocolFeatures; r <= spec.DmabufScanout2; r++ {
		if strings.EqualFold(r.String(), s) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown request %q", s)
}

func decodeCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("decode expects exactly one hex argument")
	}

	h, trailing, err := parseHeader(c.Args().First())
	if err != nil {
		return err
	}
	log.Debug().Object("header", h).Msg("decoded header")

	code, err := h.Code()
	if err != nil {
		fmt.Println("request: INVALID (unknown code)")
	} else {
		fmt.Printf("request: %s (%d)\n", code, uint32(code))
	}
	fmt.Printf("reply:   %v\n", h.IsReply())
	fmt.Printf("size:    %d\n", h.Size())
	fmt.Printf("valid:   %v\n", h.IsValid())

	if n := uint32(len(trailing)); n > 0 || h.Size() > 0 {
		fmt.Printf("payload: %d byte(s) in dump, %d declared\n", n, h.Size())
		if n != h.Size() {
			log.Warn().Uint32("declared", h.Size()).Uint32("present", n).
				Msg("payload length mismatch in dump")
		}
	}
	return nil
}

func encodeCmd(c *cli.Context) error {
	req, err := parseBackendReq(c.String("request"))
	if err != nil {
		return err
	}
	if !req.Known() {
		log.Warn().Uint32("request", uint32(req)).
			Msg("encoding a header with an unknown request code")
	}

	var flags protocol.HeaderFlag
	if c.Bool("reply") {
		flags = protocol.FlagReply
	}

	h := protocol.NewHeader(req, flags, uint32(c.Uint("size")))
	data, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", data)
	return nil
}

func matchCmd(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("match expects a request header and a reply header")
	}

	req, _, err := parseHeader(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("request header: %w", err)
	}
	reply, _, err := parseHeader(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("reply header: %w", err)
	}

	if reply.IsReplyFor(&req) {
		fmt.Printf("match: %s reply correlates with the request\n", must(reply.Code()))
		return nil
	}
	fmt.Println("no match")
	return nil
}

func must(r spec.BackendReq, err error) spec.BackendReq {
	if err != nil {
		log.Fatal().Err(err).Msg("unreachable: correlated header has no code")
	}
	return r
}
