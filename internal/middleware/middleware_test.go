package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/latepizza/internal/auth"
	"github.com/mmynk/latepizza/internal/metrics"
	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/pkg/api"
)

// setupEchoServer serves GetCurrentUser, answering with the identity found on
// the context, behind the given interceptors.
func setupEchoServer(t *testing.T, interceptors ...connect.Interceptor) *api.AuthClient {
	t.Helper()

	handler := connect.NewUnaryHandler(api.GetCurrentUserProcedure,
		func(ctx context.Context, _ *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
			return connect.NewResponse(&api.GetCurrentUserResponse{
				User: &api.User{ID: GetUserID(ctx), Email: GetEmail(ctx)},
			}), nil
		},
		api.WithCodec(),
		connect.WithInterceptors(interceptors...),
	)

	mux := http.NewServeMux()
	mux.Handle(api.GetCurrentUserProcedure, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return api.NewAuthClient(http.DefaultClient, server.URL)
}

func callWithHeader(client *api.AuthClient, header string) (*api.User, error) {
	req := connect.NewRequest(&api.GetCurrentUserRequest{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	resp, err := client.GetCurrentUser.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg.User, nil
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u1", Email: "alex@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	client := setupEchoServer(t, RequireAuth(jwtManager))

	user, err := callWithHeader(client, "Bearer "+token)
	if err != nil {
		t.Fatalf("call with valid token failed: %v", err)
	}
	if user.ID != "u1" || user.Email != "alex@example.com" {
		t.Errorf("identity = %+v", user)
	}

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-token"} {
		_, err := callWithHeader(client, header)
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("header %q: expected CodeUnauthenticated, got %v", header, err)
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, _ := jwtManager.Generate(&models.User{ID: "u1", Email: "alex@example.com"})
	client := setupEchoServer(t, OptionalAuth(jwtManager))

	user, err := callWithHeader(client, "")
	if err != nil {
		t.Fatalf("anonymous call failed: %v", err)
	}
	if user.Email != "" {
		t.Errorf("anonymous call got email %q", user.Email)
	}

	user, err = callWithHeader(client, "Bearer "+token)
	if err != nil {
		t.Fatalf("authenticated call failed: %v", err)
	}
	if user.Email != "alex@example.com" {
		t.Errorf("Email = %q, want alex@example.com", user.Email)
	}

	if _, err := callWithHeader(client, "Bearer garbage"); err != nil {
		t.Errorf("invalid token should be ignored, got %v", err)
	}
}

type rpcRecorder struct {
	metrics.Nop
	mu    sync.Mutex
	codes []string
}

func (r *rpcRecorder) RecordRPC(_, code string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

func TestLoggingInterceptor_RecordsCodes(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	rec := &rpcRecorder{}
	client := setupEchoServer(t, LoggingInterceptor(rec), RequireAuth(jwtManager))

	token, _ := jwtManager.Generate(&models.User{ID: "u1", Email: "alex@example.com"})
	if _, err := callWithHeader(client, "Bearer "+token); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	_, _ = callWithHeader(client, "")

	want := []string{"ok", connect.CodeUnauthenticated.String()}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.codes) != len(want) {
		t.Fatalf("recorded %v, want %v", rec.codes, want)
	}
	for i := range want {
		if rec.codes[i] != want[i] {
			t.Errorf("code[%d] = %q, want %q", i, rec.codes[i], want[i])
		}
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(b.buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		if json.Unmarshal(line, &entry) == nil {
			out = append(out, entry)
		}
	}
	return out
}

func TestLoggingInterceptor_LogsAuthenticatedActor(t *testing.T) {
	buf := &syncBuffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	client := setupEchoServer(t, LoggingInterceptor(metrics.Nop{}), RequireAuth(jwtManager))

	token, _ := jwtManager.Generate(&models.User{ID: "u1", Email: "alex@example.com"})
	if _, err := callWithHeader(client, "Bearer "+token); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	_, _ = callWithHeader(client, "")

	var actors []any
	for _, entry := range buf.lines() {
		if entry["procedure"] == api.GetCurrentUserProcedure {
			actors = append(actors, entry["actor"])
		}
	}
	if len(actors) != 2 {
		t.Fatalf("logged %d RPC lines, want 2", len(actors))
	}
	if actors[0] != "alex@example.com" {
		t.Errorf("authenticated call logged actor %v, want alex@example.com", actors[0])
	}
	if actors[1] != "" {
		t.Errorf("anonymous call logged actor %v, want empty", actors[1])
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2, CleanupInterval: time.Hour})
	defer rl.Stop()

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("burst requests rejected")
	}
	if rl.Allow("a") {
		t.Error("request over burst allowed")
	}
	if !rl.Allow("b") {
		t.Error("limit leaked across actors")
	}
	if rl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rl.Len())
	}

	rl.cleanup(time.Now().Add(3 * time.Hour))
	if rl.Len() != 0 {
		t.Errorf("Len() after cleanup = %d, want 0", rl.Len())
	}

	rl.Stop()
	rl.Stop()
}

func TestRateLimiter_Interceptor(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1, CleanupInterval: time.Hour})
	defer rl.Stop()
	client := setupEchoServer(t, rl.Interceptor())

	if _, err := callWithHeader(client, ""); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	_, err := callWithHeader(client, "")
	if connect.CodeOf(err) != connect.CodeResourceExhausted {
		t.Fatalf("expected CodeResourceExhausted, got %v", err)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected *connect.Error, got %T", err)
	}
}
