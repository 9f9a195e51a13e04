package main

import (
	"strings"
	"testing"

	"github.com/go-logr/logr"

	"github.com/alphadose/rhmap"
)

func TestReadKeys(t *testing.T) {
	keys, err := readKeys(strings.NewReader("kilted\nlinty\nkistful\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 3 || keys[2] != "kistful" {
		t.Errorf("got %q", keys)
	}
}

func TestRun(t *testing.T) {
	keys := sequentialKeys(5000)
	for _, probing := range []rhmap.Probing{rhmap.ProbeWrap, rhmap.ProbeTailAppend} {
		for _, kind := range []rhmap.HashKind{rhmap.FxHash, rhmap.SipHash} {
			key, err := rhmap.RandomKey(kind)
			if err != nil {
				t.Fatal(err)
			}
			cfg := config{hash: kind, key: key, probing: probing, bloomFP: 0.01}
			st, err := run(logr.Discard(), cfg, keys)
			if err != nil {
				t.Fatalf("%v/%v: %v", kind, probing, err)
			}
			if st.Len != 5000 {
				t.Errorf("%v/%v: expected 5000 entries, got %d", kind, probing, st.Len)
			}
			var total uintptr
			for _, n := range st.PSLHistogram {
				total += n
			}
			if total != st.Len {
				t.Errorf("%v/%v: histogram counts %d entries", kind, probing, total)
			}
		}
	}
}

func TestRunRejectsBadKey(t *testing.T) {
	cfg := config{hash: rhmap.HighwayHash, key: []byte("short")}
	if _, err := run(logr.Discard(), cfg, sequentialKeys(10)); err == nil {
		t.Error("expected a key length error")
	}
}
