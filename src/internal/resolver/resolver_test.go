package resolver

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startMockServer answers a.local with 10.0.0.1 and fd00::1 and everything else with NXDOMAIN.
func startMockServer(t *testing.T) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &dns.Server{
		PacketConn: pc,
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			m := new(dns.Msg)
			m.SetReply(r)

			q := r.Question[0]
			if q.Name != "a.local." {
				m.Rcode = dns.RcodeNameError
				w.WriteMsg(m)
				return
			}
			switch q.Qtype {
			case dns.TypeA:
				rr, _ := dns.NewRR(fmt.Sprintf("%s 60 IN A 10.0.0.1", q.Name))
				m.Answer = append(m.Answer, rr)
			case dns.TypeAAAA:
				rr, _ := dns.NewRR(fmt.Sprintf("%s 60 IN AAAA fd00::1", q.Name))
				m.Answer = append(m.Answer, rr)
			}
			w.WriteMsg(m)
		}),
	}
	go func() {
		server.ActivateAndServe()
	}()
	t.Cleanup(func() { server.Shutdown() })

	return pc.LocalAddr().String()
}

func TestLookup(t *testing.T) {
	r, err := New(startMockServer(t), time.Second)
	require.NoError(t, err)

	res, err := r.Lookup(context.Background(), "a.local")
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.Equal(t, []string{"10.0.0.1", "fd00::1"}, res.Addresses)
	assert.Equal(t, "NOERROR", res.Rcode)
}

func TestLookup_NXDomain(t *testing.T) {
	r, err := New(startMockServer(t), time.Second)
	require.NoError(t, err)

	res, err := r.Lookup(context.Background(), "missing.local")
	require.NoError(t, err)
	assert.False(t, res.Resolved)
	assert.Empty(t, res.Addresses)
	assert.Equal(t, "NXDOMAIN", res.Rcode)
}

func TestLookup_IPLiteral(t *testing.T) {
	r, err := New("127.0.0.1:1", time.Second)
	require.NoError(t, err)

	res, err := r.Lookup(context.Background(), "192.168.1.10")
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.Equal(t, []string{"192.168.1.10"}, res.Addresses)
}

func TestLookup_EmptyHost(t *testing.T) {
	r, err := New("127.0.0.1", time.Second)
	require.NoError(t, err)

	_, err = r.Lookup(context.Background(), " ")
	assert.Error(t, err)
}

func TestNew_ServerAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.1.1.1", "1.1.1.1:53"},
		{"1.1.1.1:5353", "1.1.1.1:5353"},
		{"::1", "[::1]:53"},
		{"[::1]:5353", "[::1]:5353"},
	}
	for _, tt := range tests {
		r, err := New(tt.in, 0)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, r.Server())
	}
}

func TestHostFromURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://a.local", "a.local", false},
		{"https://grafana.example.com:8443/d/abc", "grafana.example.com", false},
		{"http://[fd00::1]:8080", "fd00::1", false},
		{"not a url", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := HostFromURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
