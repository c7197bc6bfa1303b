package asm

import (
	"bytes"
	"testing"
)

func TestAssemble_PushAdd(t *testing.T) {
	got, err := Assemble("PUSH1 0x06\nPUSH1 0x07\nADD\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x60, 0x06, 0x60, 0x07, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("Assemble() = %x, want %x", got, want)
	}
}

func TestAssemble_SkipsBlankLines(t *testing.T) {
	got, err := Assemble("STOP\n\n   \nSTOP\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("Assemble() = %x, want %x", got, want)
	}
}

func TestAssemble_Push1Zero(t *testing.T) {
	got, err := Assemble("PUSH1 0")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x60, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("Assemble() = %x, want %x", got, want)
	}
}

func TestAssemble_Push2_ExactWidth(t *testing.T) {
	got, err := Assemble("PUSH2 0x1234")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x61, 0x12, 0x34}
	if !bytes.Equal(got, want) {
		t.Fatalf("Assemble() = %x, want %x", got, want)
	}
}

func TestAssemble_Push1_NoPrefix(t *testing.T) {
	got, err := Assemble("PUSH1 ff")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x60, 0xff}
	if !bytes.Equal(got, want) {
		t.Fatalf("Assemble() = %x, want %x", got, want)
	}
}

func TestAssemble_OperandTooWide(t *testing.T) {
	_, err := Assemble("PUSH1 0x1234")
	if err == nil {
		t.Fatalf("Assemble() err = nil, want InvalidAsmToken")
	}
}

func TestAssemble_UnknownMnemonic(t *testing.T) {
	_, err := Assemble("FROBNICATE")
	if err == nil {
		t.Fatalf("Assemble() err = nil, want InvalidAsmToken")
	}
}

func TestAssemble_MissingOperand(t *testing.T) {
	_, err := Assemble("PUSH1")
	if err == nil {
		t.Fatalf("Assemble() err = nil, want InvalidAsmToken")
	}
}

func TestAssemble_NonPushMnemonicRejectsOperand(t *testing.T) {
	_, err := Assemble("ADD 0x01")
	if err == nil {
		t.Fatalf("Assemble() err = nil, want InvalidAsmToken")
	}
}
