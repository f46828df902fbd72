package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"xdao.co/ipld/car"
	"xdao.co/ipld/cid"
	"xdao.co/ipld/cidutil"
	"xdao.co/ipld/datamodel"
	"xdao.co/ipld/libipld"
	"xdao.co/ipld/multibase"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "cid":
		return cmdCid(args[1:], out, errOut)
	case "cbor":
		return cmdCbor(args[1:], out, errOut)
	case "multibase":
		return cmdMultibase(args[1:], out, errOut)
	case "car":
		return cmdCar(args[1:], out, errOut)
	case "digest":
		return cmdDigest(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "ipld-inspect: poke at CIDs, DAG-CBOR payloads, and CAR archives")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ipld-inspect cid <text-cid>")
	fmt.Fprintln(w, "  ipld-inspect cid --from-file <binary-cid-file>")
	fmt.Fprintln(w, "  ipld-inspect cbor dump [--multi] <file>")
	fmt.Fprintln(w, "  ipld-inspect cbor cid <file>")
	fmt.Fprintln(w, "  ipld-inspect multibase encode --base <code> <file>")
	fmt.Fprintln(w, "  ipld-inspect multibase decode <text>")
	fmt.Fprintln(w, "  ipld-inspect multibase list")
	fmt.Fprintln(w, "  ipld-inspect car ls <file>")
	fmt.Fprintln(w, "  ipld-inspect car cat --cid <CID> <file>")
	fmt.Fprintln(w, "  ipld-inspect digest <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - cbor input must be canonical DAG-CBOR; non-canonical bytes are rejected")
	fmt.Fprintln(w, "  - digest prints the CIDv1 raw/sha2-256 of the file bytes")
	fmt.Fprintln(w, "  - car cat writes the raw block payload to stdout")
}

func cmdCid(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var fromFile string
	fs.StringVar(&fromFile, "from-file", "", "Read a binary CID from a file instead of parsing text")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	var c cid.Cid
	switch {
	case fromFile != "":
		if fs.NArg() != 0 {
			fmt.Fprintln(errOut, "usage: ipld-inspect cid --from-file <binary-cid-file>")
			return 2
		}
		b, err := os.ReadFile(fromFile)
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fromFile), err)
			return 1
		}
		c, err = libipld.DecodeCidBytes(b)
		if err != nil {
			fmt.Fprintf(errOut, "invalid cid: %v\n", err)
			return 1
		}
	case fs.NArg() == 1:
		var err error
		c, err = libipld.DecodeCid(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "invalid cid: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintln(errOut, "usage: ipld-inspect cid <text-cid>")
		return 2
	}

	h := c.Hash()
	fmt.Fprintf(out, "version: %d\n", c.Version())
	fmt.Fprintf(out, "codec:   0x%x\n", c.Codec())
	fmt.Fprintf(out, "hash:    0x%x (%d bytes)\n", h.Code(), h.Size())
	fmt.Fprintf(out, "digest:  %s\n", hex.EncodeToString(h.Digest()))
	fmt.Fprintf(out, "text:    %s\n", c)
	return 0
}

func cmdCbor(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: ipld-inspect cbor <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: dump, cid")
		return 2
	}
	switch args[0] {
	case "dump":
		return cmdCborDump(args[1:], out, errOut)
	case "cid":
		fs := flag.NewFlagSet("cbor cid", flag.ContinueOnError)
		fs.SetOutput(errOut)
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: ipld-inspect cbor cid <file>")
			return 2
		}
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
			return 1
		}
		if _, err := libipld.DecodeDagCbor(b); err != nil {
			fmt.Fprintf(errOut, "not canonical dag-cbor: %v\n", err)
			return 1
		}
		id, err := cidutil.CidV1(cid.DagCBOR, cid.SHA2_256, b)
		if err != nil {
			fmt.Fprintf(errOut, "cid: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, id)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown cbor subcommand: %s\n", args[0])
		return 2
	}
}

func cmdCborDump(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cbor dump", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var multi bool
	fs.BoolVar(&multi, "multi", false, "Decode a concatenation of values instead of a single value")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: ipld-inspect cbor dump [--multi] <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}

	if multi {
		vs, err := libipld.DecodeDagCborMulti(b)
		if err != nil {
			fmt.Fprintf(errOut, "decode: %v\n", err)
			return 1
		}
		for _, v := range vs {
			_, _ = fmt.Fprintln(out, formatValue(v))
		}
		return 0
	}

	v, err := libipld.DecodeDagCbor(b)
	if err != nil {
		fmt.Fprintf(errOut, "decode: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, formatValue(v))
	return 0
}

func cmdMultibase(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: ipld-inspect multibase <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: encode, decode, list")
		return 2
	}
	switch args[0] {
	case "encode":
		fs := flag.NewFlagSet("multibase encode", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var base string
		fs.StringVar(&base, "base", "b", "Multibase prefix code (single character)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if len(base) != 1 || fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: ipld-inspect multibase encode --base <code> <file>")
			return 2
		}
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
			return 1
		}
		s, err := libipld.EncodeMultibase(base[0], b)
		if err != nil {
			fmt.Fprintf(errOut, "encode: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, s)
		return 0
	case "decode":
		fs := flag.NewFlagSet("multibase decode", flag.ContinueOnError)
		fs.SetOutput(errOut)
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: ipld-inspect multibase decode <text>")
			return 2
		}
		code, data, err := libipld.DecodeMultibase(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "decode: %v\n", err)
			return 1
		}
		fmt.Fprintf(errOut, "base: %c\n", code)
		_, _ = out.Write(data)
		return 0
	case "list":
		fs := flag.NewFlagSet("multibase list", flag.ContinueOnError)
		fs.SetOutput(errOut)
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		for _, e := range multibase.Encodings() {
			fmt.Fprintf(out, "%c  %s\n", e.Code, e.Name)
		}
		return 0
	default:
		fmt.Fprintf(errOut, "unknown multibase subcommand: %s\n", args[0])
		return 2
	}
}

func cmdCar(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: ipld-inspect car <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: ls, cat")
		return 2
	}
	switch args[0] {
	case "ls":
		fs := flag.NewFlagSet("car ls", flag.ContinueOnError)
		fs.SetOutput(errOut)
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: ipld-inspect car ls <file>")
			return 2
		}
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "open %s: %v\n", filepath.Base(fs.Arg(0)), err)
			return 1
		}
		defer f.Close()

		r, err := car.NewReader(f)
		if err != nil {
			fmt.Fprintf(errOut, "invalid car: %v\n", err)
			return 1
		}
		for _, root := range r.Header().Roots {
			fmt.Fprintf(out, "root  %s\n", root)
		}
		for {
			blk, err := r.Next()
			if err == io.EOF {
				return 0
			}
			if err != nil {
				fmt.Fprintf(errOut, "invalid car: %v\n", err)
				return 1
			}
			fmt.Fprintf(out, "block %s  %d bytes\n", blk.Cid, len(blk.Data))
		}
	case "cat":
		fs := flag.NewFlagSet("car cat", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var cidText string
		fs.StringVar(&cidText, "cid", "", "CID of the block to extract")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if cidText == "" || fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: ipld-inspect car cat --cid <CID> <file>")
			return 2
		}
		want, err := libipld.DecodeCid(cidText)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --cid: %v\n", err)
			return 2
		}
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
			return 1
		}
		_, blocks, err := libipld.DecodeCar(b)
		if err != nil {
			fmt.Fprintf(errOut, "invalid car: %v\n", err)
			return 1
		}
		payload, ok := blocks[want]
		if !ok {
			fmt.Fprintf(errOut, "block not found: %s\n", want)
			return 1
		}
		_, _ = out.Write(payload)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown car subcommand: %s\n", args[0])
		return 2
	}
}

func cmdDigest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: ipld-inspect digest <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}
	_, _ = fmt.Fprintln(out, cidutil.CIDv1RawSHA256(b))
	return 0
}

// formatValue renders a value as single-line JSON-ish text. Bytes are hex
// with a 0x prefix and links print as text CIDs, neither of which is valid
// JSON; the output is for eyeballs, not machines.
func formatValue(v datamodel.Value) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v datamodel.Value) {
	switch x := v.(type) {
	case datamodel.Null, nil:
		sb.WriteString("null")
	case datamodel.Bool:
		sb.WriteString(strconv.FormatBool(bool(x)))
	case datamodel.Int:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
	case datamodel.Float:
		sb.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 64))
	case datamodel.String:
		sb.WriteString(strconv.Quote(string(x)))
	case datamodel.Bytes:
		sb.WriteString("0x")
		sb.WriteString(hex.EncodeToString(x))
	case datamodel.List:
		sb.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeValue(sb, e)
		}
		sb.WriteByte(']')
	case datamodel.Map:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if len(keys[i]) != len(keys[j]) {
				return len(keys[i]) < len(keys[j])
			}
			return keys[i] < keys[j]
		})
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			writeValue(sb, x[k])
		}
		sb.WriteByte('}')
	case datamodel.Link:
		sb.WriteString(x.Cid().String())
	default:
		fmt.Fprintf(sb, "%#v", v)
	}
}
