package bcb

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbstore/credit-service/internal/config"
)

const sampleResponse = `<?xml version="1.0" encoding="utf-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
	<soapenv:Body>
		<getUltimoValorXMLResponse>
			<SERIE>
				<NOME>Taxa Selic</NOME>
				<DATA>31/08/2026</DATA>
				<VALOR>10.50</VALOR>
			</SERIE>
		</getUltimoValorXMLResponse>
	</soapenv:Body>
</soapenv:Envelope>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(&config.Config{BCBURL: srv.URL}, log)
}

func TestGetReferenceRate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		w.Write([]byte(sampleResponse))
	})

	rate, err := client.GetReferenceRate()
	require.NoError(t, err)
	assert.Equal(t, 10.50, rate)
}

func TestGetReferenceRateServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetReferenceRate()
	assert.Error(t, err)
}

func TestGetReferenceRateEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><Envelope></Envelope>`))
	})

	_, err := client.GetReferenceRate()
	assert.Error(t, err)
}
