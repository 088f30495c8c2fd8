// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"hash/crc32"
	"io"
	"testing"

	"github.com/pmoc/pmoc/internal/testutil"
)

func testInputs() map[string][]byte {
	r := testutil.NewRand(0)
	return map[string][]byte{
		"twain.txt": testutil.MustLoadFile("../../../testdata/twain.txt", 1e5),
		"acgt":      r.Text(1e5, []byte("ACGT\n"), true),
		"digits":    r.Text(1e4, []byte("0123456789"), false),
		"zeros":     make([]byte, 1e4),
	}
}

func testRoundTrip(t *testing.T, enc Encoder, dec Decoder) {
	if enc == nil || dec == nil {
		t.Skip("codec not registered")
	}
	for name, input := range testInputs() {
		const lvl = 6
		output, err := compress(input, enc, lvl)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}

		hash := crc32.NewIEEE()
		rd := dec(bytes.NewReader(output))
		cnt, cpErr := io.Copy(hash, rd)
		if err := rd.Close(); err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if cpErr != nil {
			t.Errorf("%s: unexpected error: %v", name, cpErr)
			continue
		}

		sum := crc32.ChecksumIEEE(input)
		if int(cnt) != len(input) {
			t.Errorf("%s: mismatching count: got %d, want %d", name, cnt, len(input))
		}
		if hash.Sum32() != sum {
			t.Errorf("%s: mismatching checksum: got 0x%08x, want 0x%08x", name, hash.Sum32(), sum)
		}
	}
}

func TestRoundTripPMOC(t *testing.T) {
	testRoundTrip(t, Encoders[FormatPMOC]["pmoc"], Decoders[FormatPMOC]["pmoc"])
}

func TestRoundTripGzip(t *testing.T) {
	testRoundTrip(t, Encoders[FormatGzip]["std"], Decoders[FormatGzip]["std"])
	testRoundTrip(t, Encoders[FormatGzip]["kp"], Decoders[FormatGzip]["kp"])
}

func TestRoundTripXZ(t *testing.T) {
	testRoundTrip(t, Encoders[FormatXZ]["xz"], Decoders[FormatXZ]["xz"])
}

// TestCodecs checks that every encoder of a format produces input that every
// decoder of that format accepts.
func TestCodecs(t *testing.T) {
	input := testInputs()["twain.txt"]
	for _, ft := range []int{FormatPMOC, FormatGzip, FormatXZ} {
		for encName, enc := range Encoders[ft] {
			output, err := compress(input, enc, 6)
			if err != nil {
				t.Errorf("format %d, encoder %s: unexpected error: %v", ft, encName, err)
				continue
			}
			for decName, dec := range Decoders[ft] {
				var buf bytes.Buffer
				rd := dec(bytes.NewReader(output))
				_, err := io.Copy(&buf, rd)
				if cerr := rd.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					t.Errorf("format %d, %s to %s: unexpected error: %v", ft, encName, decName, err)
					continue
				}
				if !bytes.Equal(buf.Bytes(), input) {
					t.Errorf("format %d, %s to %s: data mismatch", ft, encName, decName)
				}
			}
		}
	}
}

func TestRatioSuite(t *testing.T) {
	Paths = []string{"../../../testdata"}
	defer func() { Paths = nil }()

	results, names := BenchmarkRatioSuite(FormatPMOC, []string{"pmoc"}, []string{"twain.txt"}, []int{0}, []int{1e4, 3000}, nil)
	if len(names) != 2 || names[0] != "twain.txt:0:1e4" {
		t.Fatalf("names: got %v, want twain.txt:0:1e4 first", names)
	}
	for i, row := range results {
		// Text over a small alphabet always shrinks under a byte-wise
		// Huffman code, even with the descriptor overhead.
		if r := row[0]; r.R <= 1 || r.D != 1 {
			t.Errorf("row %d: got %+v, want ratio above 1 and delta 1", i, r)
		}
	}
}
