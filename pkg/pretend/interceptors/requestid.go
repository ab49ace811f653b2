package interceptors

import (
	mathrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/toyz/pretend/pkg/pretend"
)

// DefaultRequestIDHeader is the header written by RequestID.
const DefaultRequestIDHeader = "X-Request-Id"

// IDGenerator returns a fresh request identifier.
type IDGenerator func() string

// UUID generates random (version 4) UUIDs.
func UUID() IDGenerator {
	return uuid.NewString
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// ULID generates lexically sortable ULIDs.
func ULID() IDGenerator {
	return func() string {
		entropyMu.Lock()
		defer entropyMu.Unlock()
		return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	}
}

// RequestID tags every request with an identifier unless it already carries
// one. An empty header name uses DefaultRequestIDHeader and a nil generator
// uses UUID.
func RequestID(header string, gen IDGenerator) pretend.Interceptor {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	if gen == nil {
		gen = UUID()
	}
	return pretend.InterceptorFunc(func(req *pretend.Request) (*pretend.Request, error) {
		if req.Header.Get(header) != "" {
			return req, nil
		}
		out := req.Clone()
		if out.Header == nil {
			out.Header = make(http.Header)
		}
		out.Header.Set(header, gen())
		return out, nil
	})
}
