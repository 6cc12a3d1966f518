package parser

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTransactionCSVShortArity(t *testing.T) {
	path := writeFixture(t, "trans.csv",
		"21.11.2020 11:22:33,ENTER,WWA-GPW,S,100,22,70,PLN,2 270,0,PLN\n")
	p := &TransactionCSV{}
	tbl, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("got %d rows, want 1", tbl.Len())
	}

	wantTime := time.Date(2020, 11, 21, 11, 22, 33, 0, time.UTC)
	if got := tbl.At(0, 0).(time.Time); !got.Equal(wantTime) {
		t.Errorf("trans_time = %v, want %v", got, wantTime)
	}
	if got := tbl.At(0, 1); got != "ENTER" {
		t.Errorf("name = %v", got)
	}
	if got := tbl.At(0, 3); got != "S" {
		t.Errorf("k_s = %v", got)
	}
	if got := tbl.At(0, 4); got != int64(100) {
		t.Errorf("amount = %v", got)
	}
	if got := tbl.At(0, 5); got != 22.70 {
		t.Errorf("unit_price = %v, want 22.70", got)
	}
	if got := tbl.At(0, 7); got != nil {
		t.Errorf("commission = %v, want nil for short arity", got)
	}
	if got := tbl.At(0, 9); got != 2270.0 {
		t.Errorf("price = %v, want 2270.0", got)
	}
	if got := tbl.At(0, 10); got != "PLN" {
		t.Errorf("currency = %v", got)
	}
}

func TestTransactionCSVCommissionArity(t *testing.T) {
	path := writeFixture(t, "trans.csv",
		"02.01.2021 10:00:00,XTRADEBDM,WWA-GPW,K,10,350,50,PLN,12,90,PLN,3 505,0,PLN\n")
	p := &TransactionCSV{}
	tbl, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := tbl.At(0, 1); got != "XTB" {
		t.Errorf("name = %v, want alias XTB", got)
	}
	if got := tbl.At(0, 5); got != 350.50 {
		t.Errorf("unit_price = %v, want 350.50", got)
	}
	if got := tbl.At(0, 7); got != 12.90 {
		t.Errorf("commission = %v, want 12.90", got)
	}
	if got := tbl.At(0, 9); got != 3505.0 {
		t.Errorf("price = %v, want 3505.0", got)
	}
}

func TestTransactionCSVMalformed(t *testing.T) {
	path := writeFixture(t, "bad.csv", "one,two,three\n")
	p := &TransactionCSV{}
	_, err := p.Parse(path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestIntradayPRN(t *testing.T) {
	lines := []string{
		"ALIOR,5,20220311,090500,37.00,37.10,36.90,36.90,1200,0",
		"ALIOR,5,20220311,091000,36.95,39.50,36.92,39.50,800,0",
		"ALIOR,5,20220311,091500,39.10,39.20,xx,39.00,500,0", // corrupt numeric field
		"CELONPHARMA,5,20220311,090500,41.00,41.20,40.90,41.10,300,0",
		"PODSUMOWANIE,,,,,,,,,", // trailing summary line
	}
	path := writeFixture(t, "intraday.prn", strings.Join(lines, "\n")+"\n")
	p := &IntradayPRN{}
	tbl, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("got %d rows, want 3 (summary dropped, corrupt filtered)", tbl.Len())
	}
	if got := tbl.At(2, 0); got != "CLNPHARMA" {
		t.Errorf("name = %v, want alias CLNPHARMA", got)
	}
	wantTS := time.Date(2022, 3, 11, 9, 5, 0, 0, time.UTC)
	if got := tbl.At(0, 1).(time.Time); !got.Equal(wantTS) {
		t.Errorf("date = %v, want %v", got, wantTS)
	}
	if got := tbl.At(1, 3); got != 39.5 {
		t.Errorf("high = %v, want 39.5", got)
	}
}
