package kfmt

import (
	"bytes"
	"testing"
)

func TestPrintf(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	var buf bytes.Buffer
	SetOutputSink(&buf)

	// mute vet warnings about malformed printf formatting strings
	printfn := Printf

	specs := []struct {
		fn        func()
		expOutput string
	}{
		{
			func() { printfn("no args") },
			"no args",
		},
		// bool values
		{
			func() { printfn("%t", true) },
			"true",
		},
		{
			func() { printfn("%t", false) },
			"false",
		},
		// strings and byte slices
		{
			func() { printfn("%s arg", "STRING") },
			"STRING arg",
		},
		{
			func() { printfn("%s arg", []byte("BYTE SLICE")) },
			"BYTE SLICE arg",
		},
		{
			func() { printfn("'%4s' arg with padding", "ABC") },
			"' ABC' arg with padding",
		},
		{
			func() { printfn("'%4s' arg longer than padding", "ABCDE") },
			"'ABCDE' arg longer than padding",
		},
		// uints
		{
			func() { printfn("uint arg: %d", uint8(10)) },
			"uint arg: 10",
		},
		{
			func() { printfn("uint arg: %o", uint16(0777)) },
			"uint arg: 777",
		},
		{
			func() { printfn("uint arg: 0x%x", uint32(0xbadf00d)) },
			"uint arg: 0xbadf00d",
		},
		{
			func() { printfn("uint arg with padding: '%10d'", uint64(123)) },
			"uint arg with padding: '       123'",
		},
		{
			func() { printfn("uint arg with padding: '0x%10x'", uint64(0xbadf00d)) },
			"uint arg with padding: '0x000badf00d'",
		},
		// pointers
		{
			func() { printfn("uintptr 0x%x", uintptr(0xb8000)) },
			"uintptr 0xb8000",
		},
		// ints
		{
			func() { printfn("int arg: %d", int8(-10)) },
			"int arg: -10",
		},
		{
			func() { printfn("int arg: %x", int32(-0xbadf00d)) },
			"int arg: -badf00d",
		},
		{
			func() { printfn("int arg with padding: '%6d'", int(-123)) },
			"int arg with padding: '  -123'",
		},
		// multiple verbs
		{
			func() { printfn("%s %d %x", "mix", 42, uintptr(0x1000)) },
			"mix 42 1000",
		},
		// escaped percent
		{
			func() { printfn("100%% done") },
			"100% done",
		},
		// error cases
		{
			func() { printfn("%d") },
			"(MISSING)",
		},
		{
			func() { printfn("no verb", 1) },
			"no verb%!(EXTRA)",
		},
		{
			func() { printfn("%d", "not a number") },
			"%!(WRONGTYPE)",
		},
		{
			func() { printfn("%t", 42) },
			"%!(WRONGTYPE)",
		},
	}

	for specIndex, spec := range specs {
		buf.Reset()
		spec.fn()
		if got := buf.String(); got != spec.expOutput {
			t.Errorf("[spec %d] expected to get %q; got %q", specIndex, spec.expOutput, got)
		}
	}
}

func TestEarlyPrintBuffer(t *testing.T) {
	defer func() {
		outputSink = nil
		earlyPrintBuffer.rIndex = 0
		earlyPrintBuffer.wIndex = 0
	}()

	outputSink = nil
	earlyPrintBuffer.rIndex = 0
	earlyPrintBuffer.wIndex = 0

	Printf("early: %d\n", 42)

	// installing a sink drains the buffered output into it
	var buf bytes.Buffer
	SetOutputSink(&buf)

	if exp, got := "early: 42\n", buf.String(); got != exp {
		t.Fatalf("expected sink to receive buffered output %q; got %q", exp, got)
	}
}

func TestGetOutputSink(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	outputSink = nil
	if got := GetOutputSink(); got != &earlyPrintBuffer {
		t.Fatal("expected GetOutputSink to return the early print buffer when no sink is set")
	}

	var buf bytes.Buffer
	SetOutputSink(&buf)
	if got := GetOutputSink(); got != &buf {
		t.Fatal("expected GetOutputSink to return the installed sink")
	}
}
