// ipld_vector_gen prints conformance vectors computed with the reference
// multiformats libraries, for pasting into package tests.
package main

import (
	"encoding/hex"
	"fmt"

	refcid "github.com/ipfs/go-cid"
	refmb "github.com/multiformats/go-multibase"
	refmh "github.com/multiformats/go-multihash"
)

func main() {
	payloads := [][]byte{
		[]byte("yes mani !"),
		[]byte("hello world"),
		{0x00, 0x01, 0x02, 0xff},
	}

	bases := []refmb.Encoding{
		refmb.Base16,
		refmb.Base32,
		refmb.Base36,
		refmb.Base58BTC,
		refmb.Base64,
		refmb.Base64url,
		refmb.Base64urlPad,
	}
	fmt.Println("# multibase")
	for _, p := range payloads {
		for _, b := range bases {
			s, err := refmb.Encode(b, p)
			if err != nil {
				panic(err)
			}
			fmt.Printf("%q\t%s\n", p, s)
		}
	}

	fmt.Println("# cid")
	for _, p := range payloads {
		mh, err := refmh.Sum(p, refmh.SHA2_256, -1)
		if err != nil {
			panic(err)
		}
		v1 := refcid.NewCidV1(refcid.DagCBOR, mh)
		v0 := refcid.NewCidV0(mh)
		fmt.Printf("%q\tv1=%s\tv1bytes=%s\n", p, v1, hex.EncodeToString(v1.Bytes()))
		fmt.Printf("%q\tv0=%s\tv0bytes=%s\n", p, v0, hex.EncodeToString(v0.Bytes()))
	}
}
