package dto

import (
	"encoding/json"
	"testing"
)

func TestActionRequestDecoding(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantID     ID
		wantAmount Number
	}{
		{name: "numbers", body: `{"action":"update","id":7,"amount":12.5}`, wantID: 7, wantAmount: 12.5},
		{name: "strings", body: `{"action":"update","id":"7","amount":"12.50"}`, wantID: 7, wantAmount: 12.5},
		{name: "garbage", body: `{"action":"update","id":"abc","amount":"lots"}`, wantID: 0, wantAmount: 0},
		{name: "null", body: `{"action":"update","id":null,"amount":null}`, wantID: 0, wantAmount: 0},
		{name: "missing", body: `{"action":"update"}`, wantID: 0, wantAmount: 0},
		{name: "fractional id", body: `{"action":"delete","id":3.0}`, wantID: 3, wantAmount: 0},
		{name: "infinity", body: `{"action":"add","amount":"Inf"}`, wantID: 0, wantAmount: 0},
		{name: "signed infinity", body: `{"action":"add","amount":"+Infinity"}`, wantID: 0, wantAmount: 0},
		{name: "nan", body: `{"action":"add","amount":"NaN"}`, wantID: 0, wantAmount: 0},
		{name: "overflow", body: `{"action":"add","amount":"1e400"}`, wantID: 0, wantAmount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ActionRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if req.ID != tt.wantID {
				t.Errorf("id = %d, want %d", req.ID, tt.wantID)
			}
			if req.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", req.Amount, tt.wantAmount)
			}
		})
	}
}

func TestActionRequestPromotesFields(t *testing.T) {
	var req ActionRequest
	body := `{"action":"add","type":"income","category":"Salary","amount":100,"description":"Oct","date":"2024-10-01"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Action != ActionAdd || req.Type != "income" || req.Category != "Salary" ||
		req.Description != "Oct" || req.Date != "2024-10-01" || req.Amount != 100 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestParseID(t *testing.T) {
	for in, want := range map[string]int64{"12": 12, " 4 ": 4, "-3": -3, "x": 0, "": 0, "2.9": 2} {
		if got := ParseID(in); got != want {
			t.Errorf("ParseID(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestResponseOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Fail("Transaction not found"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"success":false,"message":"Transaction not found"}` {
		t.Errorf("got %s", got)
	}

	b, err = json.Marshal(OK([]TransactionResponse{}))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"success":true,"data":[]}` {
		t.Errorf("got %s", got)
	}
}
