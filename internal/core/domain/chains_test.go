package domain

import (
	"errors"
	"testing"
)

func TestParseChainID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ChainID
		wantErr bool
	}{
		{
			name:  "bitcoin mainnet",
			input: "bip122:000000000019d6689c085ae165831e93",
			want:  ChainID{Namespace: "bip122", Reference: "000000000019d6689c085ae165831e93"},
		},
		{
			name:  "evm mainnet",
			input: "eip155:1",
			want:  ChainID{Namespace: "eip155", Reference: "1"},
		},
		{
			name:  "underscore reference",
			input: "bip122:any_chain_id",
			want:  ChainID{Namespace: "bip122", Reference: "any_chain_id"},
		},
		{name: "empty", input: "", wantErr: true},
		{name: "no separator", input: "mock_chain_id", wantErr: true},
		{name: "empty reference", input: "bip122:", wantErr: true},
		{name: "short namespace", input: "bt:1", wantErr: true},
		{name: "uppercase namespace", input: "BIP122:1", wantErr: true},
		{name: "reference too long", input: "bip122:000000000019d6689c085ae165831e93ffff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChainID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidChainID) {
					t.Fatalf("expected ErrInvalidChainID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if got.String() != tt.input {
				t.Errorf("expected round trip %q, got %q", tt.input, got.String())
			}
		})
	}
}

func TestChainID_IsBip122(t *testing.T) {
	if !MustParseChainID("bip122:000000000933ea01ad0ee984209779ba").IsBip122() {
		t.Error("expected bip122 namespace")
	}
	if MustParseChainID("eip155:1").IsBip122() {
		t.Error("eip155 is not bip122")
	}
	if (ChainID{}).IsBip122() {
		t.Error("zero id is not bip122")
	}
}

func TestChainID_Text(t *testing.T) {
	var id ChainID
	if err := id.UnmarshalText([]byte("bip122:00000008819873e925422c1ff0f99f7c")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := id.MarshalText()
	if string(b) != "bip122:00000008819873e925422c1ff0f99f7c" {
		t.Errorf("unexpected text %q", b)
	}
	if err := id.UnmarshalText([]byte("garbage")); err == nil {
		t.Error("expected error for garbage input")
	}
}
