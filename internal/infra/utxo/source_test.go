package utxo

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/core/network"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/provider"
	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/routing"
)

const (
	mainnetAddr = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
	testnetAddr = "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"
)

var fastRetry = routing.RetryConfig{
	MaxAttempts:     2,
	InitialDelay:    time.Millisecond,
	MaxDelay:        5 * time.Millisecond,
	BackoffMultiple: 2,
}

func params() ParamsFunc {
	return network.MainnetCatalog().Params
}

type fakeSource struct {
	utxos []domain.UTXO
	err   error
	calls atomic.Int32
}

func (f *fakeSource) GetUTXOs(ctx context.Context, n domain.Network, address string) ([]domain.UTXO, error) {
	f.calls.Add(1)
	return f.utxos, f.err
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		network domain.Network
		address string
		wantErr bool
	}{
		{name: "mainnet segwit", network: network.Bitcoin, address: mainnetAddr},
		{name: "testnet segwit", network: network.BitcoinTestnet, address: testnetAddr},
		{name: "testnet address on mainnet", network: network.Bitcoin, address: testnetAddr, wantErr: true},
		{name: "mainnet address on testnet", network: network.BitcoinTestnet, address: mainnetAddr, wantErr: true},
		{name: "legacy mainnet address on testnet", network: network.BitcoinTestnet, address: "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", wantErr: true},
		{name: "garbage", network: network.Bitcoin, address: "not-an-address", wantErr: true},
		{name: "empty", network: network.Bitcoin, address: "", wantErr: true},
		{
			name:    "unknown network skips validation",
			network: domain.Network{ID: domain.MustParseChainID("bip122:any_chain_id")},
			address: "mock_address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAddress(params(), tt.network, tt.address)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRouter(t *testing.T) {
	primary := &fakeSource{utxos: []domain.UTXO{{TxID: "aa", Value: 1}}}
	r := NewRouter()
	r.Handle(network.Bitcoin.ID, primary)

	utxos, err := r.GetUTXOs(context.Background(), network.Bitcoin, mainnetAddr)
	require.NoError(t, err)
	assert.Len(t, utxos, 1)

	_, err = r.GetUTXOs(context.Background(), network.BitcoinSignet, "tb1q")
	assert.ErrorIs(t, err, ErrNoSource)
	assert.EqualValues(t, 1, primary.calls.Load())
}

func TestInstrument_PassesThrough(t *testing.T) {
	boom := errors.New("boom")
	s := Instrument("test", &fakeSource{err: boom})

	_, err := s.GetUTXOs(context.Background(), network.Bitcoin, mainnetAddr)
	assert.Same(t, boom, err)
}

func TestEsplora_GetUTXOs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/address/"+mainnetAddr+"/utxo", r.URL.Path)
		w.Write([]byte(`[
			{"txid":"aa","vout":0,"status":{"confirmed":true,"block_height":800000,"block_hash":"00"},"value":10000},
			{"txid":"bb","vout":2,"status":{"confirmed":false},"value":20000}
		]`))
	}))
	defer server.Close()

	e := NewEsplora([]provider.Provider{
		provider.NewHTTPProvider("esplora", server.URL+"/api", 5*time.Second),
	}, params(), fastRetry)

	utxos, err := e.GetUTXOs(context.Background(), network.Bitcoin, mainnetAddr)
	require.NoError(t, err)
	assert.Equal(t, []domain.UTXO{
		{TxID: "aa", Vout: 0, Value: 10000, Confirmed: true, BlockHeight: 800000},
		{TxID: "bb", Vout: 2, Value: 20000},
	}, utxos)
}

func TestEsplora_FailsOverOnRateLimit(t *testing.T) {
	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer limited.Close()
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"txid":"cc","vout":1,"status":{"confirmed":true,"block_height":1},"value":5}]`))
	}))
	defer healthy.Close()

	e := NewEsplora([]provider.Provider{
		provider.NewHTTPProvider("mempool", limited.URL, 5*time.Second),
		provider.NewHTTPProvider("blockstream", healthy.URL, 5*time.Second),
	}, params(), fastRetry)

	utxos, err := e.GetUTXOs(context.Background(), network.Bitcoin, mainnetAddr)
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	assert.Equal(t, "cc", utxos[0].TxID)
}

func TestEsplora_InvalidAddressNeverHitsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	e := NewEsplora([]provider.Provider{
		provider.NewHTTPProvider("esplora", server.URL, 5*time.Second),
	}, params(), fastRetry)

	_, err := e.GetUTXOs(context.Background(), network.Bitcoin, testnetAddr)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Zero(t, hits.Load())
}

func TestBitcoind_GetUTXOs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
			ID     any    `json:"id"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "scantxoutset", req.Method)
		assert.Equal(t, []any{"start", []any{"addr(" + testnetAddr + ")"}}, req.Params)

		json.NewEncoder(w).Encode(map[string]any{
			"result": json.RawMessage(`{
				"success": true, "txouts": 100, "height": 2500000,
				"unspents": [
					{"txid":"aa","vout":0,"scriptPubKey":"0014","desc":"addr(x)#y","amount":0.00010000,"height":2400000},
					{"txid":"bb","vout":1,"scriptPubKey":"0014","desc":"addr(x)#y","amount":100.00000001,"height":2400001}
				],
				"total_amount": 100.00010001
			}`),
			"error": nil,
			"id":    req.ID,
		})
	}))
	defer server.Close()

	b := NewBitcoind([]provider.Provider{
		provider.NewHTTPProvider("bitcoind", server.URL, 5*time.Second),
	}, params(), fastRetry)

	utxos, err := b.GetUTXOs(context.Background(), network.BitcoinTestnet, testnetAddr)
	require.NoError(t, err)
	assert.Equal(t, []domain.UTXO{
		{TxID: "aa", Vout: 0, Value: 10000, Confirmed: true, BlockHeight: 2400000},
		{TxID: "bb", Vout: 1, Value: 10000000001, Confirmed: true, BlockHeight: 2400001},
	}, utxos)
}

func TestBitcoind_RPCErrorIsFatal(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"result":null,"error":{"code":-32601,"message":"Method not found"},"id":"1"}`))
	}))
	defer server.Close()

	b := NewBitcoind([]provider.Provider{
		provider.NewHTTPProvider("bitcoind", server.URL, 5*time.Second),
	}, params(), fastRetry)

	_, err := b.GetUTXOs(context.Background(), network.BitcoinTestnet, testnetAddr)
	assert.ErrorContains(t, err, "-32601")
	assert.EqualValues(t, 1, hits.Load())
}

func TestBtcToSats(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0.00000001", want: 1},
		{in: "0.1", want: 10000000},
		{in: "21000000", want: 2100000000000000},
		{in: "1e-8", want: 1},
		{in: "0.000000001", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "100000000000", want: 10000000000000000000},
		{in: "184467440737.09551615", want: math.MaxUint64},
		{in: "184467440737.09551616", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := btcToSats(json.Number(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeStore struct {
	chain   domain.ChainID
	address string
	utxos   []domain.UTXO
}

func (f *fakeStore) ListUnspent(ctx context.Context, chain domain.ChainID, address string) ([]domain.UTXO, error) {
	f.chain, f.address = chain, address
	return f.utxos, nil
}

func TestIndexed_GetUTXOs(t *testing.T) {
	store := &fakeStore{utxos: []domain.UTXO{{TxID: "aa", Value: 42}}}
	s := NewIndexed(store, params())

	utxos, err := s.GetUTXOs(context.Background(), network.Bitcoin, mainnetAddr)
	require.NoError(t, err)
	assert.Equal(t, store.utxos, utxos)
	assert.Equal(t, network.Bitcoin.ID, store.chain)
	assert.Equal(t, mainnetAddr, store.address)

	_, err = s.GetUTXOs(context.Background(), network.Bitcoin, "garbage")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

type fakeCache struct {
	entries  map[string][]domain.UTXO
	getErr   error
	setErr   error
	lastTTL  time.Duration
	setCalls int
}

func (f *fakeCache) GetUTXOs(ctx context.Context, chain domain.ChainID, address string) ([]domain.UTXO, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	u, ok := f.entries[chain.String()+address]
	return u, ok, nil
}

func (f *fakeCache) SetUTXOs(ctx context.Context, chain domain.ChainID, address string, utxos []domain.UTXO, ttl time.Duration) error {
	f.setCalls++
	f.lastTTL = ttl
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[chain.String()+address] = utxos
	return nil
}

func TestCached_MissThenHit(t *testing.T) {
	next := &fakeSource{utxos: []domain.UTXO{{TxID: "aa", Value: 7}}}
	cache := &fakeCache{entries: map[string][]domain.UTXO{}}
	c := NewCached(next, cache, 30*time.Second, nil)

	for range 3 {
		utxos, err := c.GetUTXOs(context.Background(), network.Bitcoin, mainnetAddr)
		require.NoError(t, err)
		assert.Equal(t, next.utxos, utxos)
	}
	assert.EqualValues(t, 1, next.calls.Load())
	assert.Equal(t, 30*time.Second, cache.lastTTL)
}

func TestCached_CacheFailuresFallThrough(t *testing.T) {
	next := &fakeSource{utxos: []domain.UTXO{{TxID: "aa", Value: 7}}}
	cache := &fakeCache{
		entries: map[string][]domain.UTXO{},
		getErr:  errors.New("redis down"),
		setErr:  errors.New("redis down"),
	}
	c := NewCached(next, cache, time.Minute, nil)

	utxos, err := c.GetUTXOs(context.Background(), network.Bitcoin, mainnetAddr)
	require.NoError(t, err)
	assert.Equal(t, next.utxos, utxos)
	assert.Equal(t, 1, cache.setCalls)
}

func TestCached_SourceErrorNotCached(t *testing.T) {
	boom := errors.New("upstream failed")
	next := &fakeSource{err: boom}
	cache := &fakeCache{entries: map[string][]domain.UTXO{}}
	c := NewCached(next, cache, time.Minute, nil)

	_, err := c.GetUTXOs(context.Background(), network.Bitcoin, mainnetAddr)
	assert.Same(t, boom, err)
	assert.Zero(t, cache.setCalls)
}
