package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/latepizza/internal/auth"
	"github.com/mmynk/latepizza/internal/calculator"
	"github.com/mmynk/latepizza/internal/ledger"
	"github.com/mmynk/latepizza/internal/metrics"
	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/internal/storage"
	"github.com/mmynk/latepizza/internal/storage/memory"
	"github.com/mmynk/latepizza/internal/storage/sqlite"
	"github.com/mmynk/latepizza/pkg/api"
)

type testServer struct {
	url    string
	auth   *api.AuthClient
	mailer *captureSender
}

// captureSender keeps the last verification token sent to each address.
type captureSender struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (c *captureSender) SendVerification(_ context.Context, user *models.User, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[user.Email] = token
	return nil
}

func (c *captureSender) tokenFor(t *testing.T, email string) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	token, ok := c.tokens[email]
	if !ok {
		t.Fatalf("no verification sent to %s", email)
	}
	return token
}

// setupTestServer serves both services over the given store.
func setupTestServer(t *testing.T, store storage.Store) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	mailer := &captureSender{tokens: make(map[string]string)}

	router := NewRouter(RouterDeps{
		Ledger:      NewLedgerService(ledger.New(store, ledger.WithMetrics(collector), ledger.WithLogger(logger))),
		Auth:        NewAuthService(authenticator, jwtManager, mailer, logger),
		JWTManager:  jwtManager,
		Metrics:     collector,
		Gatherer:    reg,
		CORSOrigins: []string{"*"},
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{
		url:    server.URL,
		auth:   api.NewAuthClient(server.Client(), server.URL),
		mailer: mailer,
	}
}

// ledgerClientFor registers and verifies email and returns a client
// authenticated as it.
func (s *testServer) ledgerClientFor(t *testing.T, email string) *api.LedgerClient {
	t.Helper()
	ctx := context.Background()

	_, err := s.auth.Register.CallUnary(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: strings.Split(email, "@")[0],
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}

	resp, err := s.auth.VerifyEmail.CallUnary(ctx, connect.NewRequest(&api.VerifyEmailRequest{
		Token: s.mailer.tokenFor(t, email),
	}))
	if err != nil {
		t.Fatalf("VerifyEmail(%s) failed: %v", email, err)
	}

	return s.clientWithToken(resp.Msg.Token)
}

func (s *testServer) clientWithToken(token string) *api.LedgerClient {
	return api.NewLedgerClient(http.DefaultClient, s.url,
		connect.WithInterceptors(api.BearerToken(token)),
	)
}

func createGroupWithMember(t *testing.T, client *api.LedgerClient, member string) (*api.Group, *api.Member) {
	t.Helper()
	ctx := context.Background()

	groupResp, err := client.CreateGroup.CallUnary(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Design Crew"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	memberResp, err := client.AddMember.CallUnary(ctx, connect.NewRequest(&api.AddMemberRequest{
		GroupID:     groupResp.Msg.Group.ID,
		DisplayName: member,
	}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	return groupResp.Msg.Group, memberResp.Msg.Member
}

func TestCreateGroup(t *testing.T) {
	srv := setupTestServer(t, memory.New())
	client := srv.ledgerClientFor(t, "owner@example.com")

	resp, err := client.CreateGroup.CallUnary(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:  "Design Crew",
		Emoji: "🍕",
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	g := resp.Msg.Group
	if g.ID == "" {
		t.Error("expected group ID to be set")
	}
	if g.CurveShift != calculator.DefaultCurveShift {
		t.Errorf("CurveShift = %v, want %v", g.CurveShift, calculator.DefaultCurveShift)
	}
	if len(g.AdminEmails) != 1 || g.AdminEmails[0] != "owner@example.com" {
		t.Errorf("AdminEmails = %v, want [owner@example.com]", g.AdminEmails)
	}
	if g.Emoji != "🍕" {
		t.Errorf("Emoji = %q", g.Emoji)
	}
}

func TestRecordMeetingAndCorrect(t *testing.T) {
	ctx := context.Background()
	srv := setupTestServer(t, memory.New())
	client := srv.ledgerClientFor(t, "owner@example.com")
	group, member := createGroupWithMember(t, client, "Alex Doe")

	meetingResp, err := client.RecordMeeting.CallUnary(ctx, connect.NewRequest(&api.RecordMeetingRequest{
		GroupID:     group.ID,
		MinutesLate: map[string]float64{member.ID: 20},
	}))
	if err != nil {
		t.Fatalf("RecordMeeting failed: %v", err)
	}
	want := calculator.SlicesForMinutes(20, calculator.DefaultCurveShift)
	entries := meetingResp.Msg.Meeting.Entries
	if len(entries) != 1 || entries[0].MinutesLate != 20 || entries[0].SlicesAwarded != want {
		t.Errorf("entries = %+v, want one entry of 20 minutes, %d slices", entries, want)
	}

	if _, err := client.CorrectMember.CallUnary(ctx, connect.NewRequest(&api.CorrectMemberRequest{
		GroupID:     group.ID,
		MemberID:    member.ID,
		DeltaSlices: -100,
		Reason:      "paid for lunch",
	})); err != nil {
		t.Fatalf("CorrectMember failed: %v", err)
	}

	groupResp, err := client.GetGroup.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	m := groupResp.Msg.Group.Members[0]
	if m.TotalPizzas != 0 || m.TotalSlices != 0 {
		t.Errorf("balance = %d/%d, want clamped to 0/0", m.TotalPizzas, m.TotalSlices)
	}

	historyResp, err := client.GetHistory.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(historyResp.Msg.Items) != 2 {
		t.Fatalf("history has %d items, want 2", len(historyResp.Msg.Items))
	}

	correctionsResp, err := client.ListCorrections.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListCorrections failed: %v", err)
	}
	if got := correctionsResp.Msg.Corrections; len(got) != 1 || got[0].Reason != "paid for lunch" {
		t.Errorf("corrections = %+v", got)
	}
}

func TestErrorCodes(t *testing.T) {
	ctx := context.Background()
	srv := setupTestServer(t, memory.New())
	owner := srv.ledgerClientFor(t, "owner@example.com")
	other := srv.ledgerClientFor(t, "other@example.com")
	group, member := createGroupWithMember(t, owner, "Alex Doe")

	badShift := -3.0
	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{"empty name", func() error {
			_, err := owner.CreateGroup.CallUnary(ctx, connect.NewRequest(&api.CreateGroupRequest{}))
			return err
		}, connect.CodeInvalidArgument},
		{"bad curve shift", func() error {
			_, err := owner.CreateGroup.CallUnary(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "x", CurveShift: &badShift}))
			return err
		}, connect.CodeInvalidArgument},
		{"missing group", func() error {
			_, err := owner.GetGroup.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: "missing"}))
			return err
		}, connect.CodeNotFound},
		{"missing member", func() error {
			_, err := owner.RemoveMember.CallUnary(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupID: group.ID, MemberID: "missing"}))
			return err
		}, connect.CodeNotFound},
		{"non-admin correction", func() error {
			_, err := other.CorrectMember.CallUnary(ctx, connect.NewRequest(&api.CorrectMemberRequest{GroupID: group.ID, MemberID: member.ID, DeltaSlices: 3}))
			return err
		}, connect.CodePermissionDenied},
		{"non-admin delete", func() error {
			_, err := other.DeleteGroup.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID}))
			return err
		}, connect.CodePermissionDenied},
		{"sole admin", func() error {
			_, err := owner.RemoveAdminEmail.CallUnary(ctx, connect.NewRequest(&api.AdminEmailRequest{GroupID: group.ID, Email: "owner@example.com"}))
			return err
		}, connect.CodeInvalidArgument},
		{"bad role", func() error {
			_, err := owner.SetMemberRole.CallUnary(ctx, connect.NewRequest(&api.SetMemberRoleRequest{GroupID: group.ID, MemberID: member.ID, Role: "boss"}))
			return err
		}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connect.CodeOf(tt.call()); got != tt.want {
				t.Errorf("code = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnauthenticated(t *testing.T) {
	srv := setupTestServer(t, memory.New())
	client := api.NewLedgerClient(http.DefaultClient, srv.url)

	_, err := client.ListGroups.CallUnary(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected CodeUnauthenticated, got %v", err)
	}
}

func TestAdminFlow(t *testing.T) {
	ctx := context.Background()
	srv := setupTestServer(t, memory.New())
	owner := srv.ledgerClientFor(t, "owner@example.com")
	helper := srv.ledgerClientFor(t, "helper@example.com")
	group, member := createGroupWithMember(t, owner, "Alex Doe")

	emailsResp, err := owner.AddAdminEmail.CallUnary(ctx, connect.NewRequest(&api.AdminEmailRequest{
		GroupID: group.ID,
		Email:   "Helper@Example.com",
	}))
	if err != nil {
		t.Fatalf("AddAdminEmail failed: %v", err)
	}
	if got := emailsResp.Msg.AdminEmails; len(got) != 2 || got[1] != "helper@example.com" {
		t.Errorf("AdminEmails = %v", got)
	}

	renamed, err := helper.RenameMember.CallUnary(ctx, connect.NewRequest(&api.RenameMemberRequest{
		GroupID:     group.ID,
		MemberID:    member.ID,
		DisplayName: "jordan kim",
	}))
	if err != nil {
		t.Fatalf("RenameMember as new admin failed: %v", err)
	}
	if renamed.Msg.Member.Initials != "JK" {
		t.Errorf("Initials = %q, want JK", renamed.Msg.Member.Initials)
	}

	shiftResp, err := helper.SetCurveShift.CallUnary(ctx, connect.NewRequest(&api.SetCurveShiftRequest{GroupID: group.ID, CurveShift: 1}))
	if err != nil {
		t.Fatalf("SetCurveShift failed: %v", err)
	}
	if shiftResp.Msg.Group.CurveShift != 1 {
		t.Errorf("CurveShift = %v, want 1", shiftResp.Msg.Group.CurveShift)
	}

	if _, err := owner.RemoveAdminEmail.CallUnary(ctx, connect.NewRequest(&api.AdminEmailRequest{
		GroupID: group.ID,
		Email:   "helper@example.com",
	})); err != nil {
		t.Fatalf("RemoveAdminEmail failed: %v", err)
	}

	_, err = helper.SetCurveShift.CallUnary(ctx, connect.NewRequest(&api.SetCurveShiftRequest{GroupID: group.ID, CurveShift: 2}))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("expected CodePermissionDenied after removal, got %v", err)
	}
}

func TestWatchGroup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv := setupTestServer(t, memory.New())
	client := srv.ledgerClientFor(t, "owner@example.com")
	group, member := createGroupWithMember(t, client, "Alex Doe")

	stream, err := client.WatchGroup.CallServerStream(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("WatchGroup failed: %v", err)
	}
	defer stream.Close()

	if !stream.Receive() {
		t.Fatalf("no initial event: %v", stream.Err())
	}
	if got := stream.Msg().Group; got == nil || got.ID != group.ID {
		t.Fatalf("initial event = %+v", stream.Msg())
	}

	if _, err := client.CorrectMember.CallUnary(ctx, connect.NewRequest(&api.CorrectMemberRequest{
		GroupID:     group.ID,
		MemberID:    member.ID,
		DeltaSlices: 7,
	})); err != nil {
		t.Fatalf("CorrectMember failed: %v", err)
	}

	if !stream.Receive() {
		t.Fatalf("no update event: %v", stream.Err())
	}
	m := stream.Msg().Group.Members[0]
	if m.TotalPizzas != 1 || m.TotalSlices != 1 {
		t.Errorf("streamed balance = %d/%d, want 1/1", m.TotalPizzas, m.TotalSlices)
	}

	if _, err := client.DeleteGroup.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if !stream.Receive() {
		t.Fatalf("no delete event: %v", stream.Err())
	}
	if !stream.Msg().Deleted {
		t.Errorf("expected Deleted event, got %+v", stream.Msg())
	}
	if stream.Receive() {
		t.Error("stream continued after delete")
	}
	if err := stream.Err(); err != nil {
		t.Errorf("stream ended with error: %v", err)
	}
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	srv := setupTestServer(t, memory.New())

	reg, err := srv.auth.Register.CallUnary(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "Alex@Example.com",
		DisplayName: "Alex Doe",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.User.Email != "alex@example.com" || reg.Msg.User.EmailVerified {
		t.Errorf("Register response = %+v", reg.Msg.User)
	}

	_, err = srv.auth.Register.CallUnary(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "alex@example.com", DisplayName: "Again", Password: "password123",
	}))
	if connect.CodeOf(err) != connect.CodeAlreadyExists {
		t.Errorf("duplicate register: expected CodeAlreadyExists, got %v", err)
	}

	_, err = srv.auth.Register.CallUnary(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "new@example.com", DisplayName: "New", Password: "short",
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("weak password: expected CodeInvalidArgument, got %v", err)
	}

	_, err = srv.auth.Login.CallUnary(ctx, connect.NewRequest(&api.LoginRequest{Email: "alex@example.com", Password: "wrong-password"}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("bad login: expected CodeUnauthenticated, got %v", err)
	}

	_, err = srv.auth.Login.CallUnary(ctx, connect.NewRequest(&api.LoginRequest{Email: "alex@example.com", Password: "password123"}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("unverified login: expected CodeFailedPrecondition, got %v", err)
	}

	_, err = srv.auth.VerifyEmail.CallUnary(ctx, connect.NewRequest(&api.VerifyEmailRequest{Token: "garbage"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("bad verification token: expected CodeInvalidArgument, got %v", err)
	}

	if _, err := srv.auth.ResendVerification.CallUnary(ctx, connect.NewRequest(&api.ResendVerificationRequest{Email: "nobody@example.com"})); err != nil {
		t.Errorf("resend for unknown email failed: %v", err)
	}
	if _, err := srv.auth.ResendVerification.CallUnary(ctx, connect.NewRequest(&api.ResendVerificationRequest{Email: "alex@example.com"})); err != nil {
		t.Fatalf("ResendVerification failed: %v", err)
	}
	verified, err := srv.auth.VerifyEmail.CallUnary(ctx, connect.NewRequest(&api.VerifyEmailRequest{
		Token: srv.mailer.tokenFor(t, "alex@example.com"),
	}))
	if err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if !verified.Msg.User.EmailVerified || verified.Msg.Token == "" {
		t.Errorf("VerifyEmail response = %+v", verified.Msg)
	}

	login, err := srv.auth.Login.CallUnary(ctx, connect.NewRequest(&api.LoginRequest{Email: "alex@example.com", Password: "password123"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	_, err = srv.auth.GetCurrentUser.CallUnary(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("anonymous GetCurrentUser: expected CodeUnauthenticated, got %v", err)
	}

	req := connect.NewRequest(&api.GetCurrentUserRequest{})
	req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	me, err := srv.auth.GetCurrentUser.CallUnary(ctx, req)
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.DisplayName != "Alex Doe" {
		t.Errorf("DisplayName = %q, want Alex Doe", me.Msg.User.DisplayName)
	}
}

func TestUnverifiedRegistrantCannotClaimAdminEmail(t *testing.T) {
	ctx := context.Background()
	srv := setupTestServer(t, memory.New())
	owner := srv.ledgerClientFor(t, "owner@example.com")
	group, _ := createGroupWithMember(t, owner, "Alex Doe")

	if _, err := owner.AddAdminEmail.CallUnary(ctx, connect.NewRequest(&api.AdminEmailRequest{
		GroupID: group.ID,
		Email:   "boss@example.com",
	})); err != nil {
		t.Fatalf("AddAdminEmail failed: %v", err)
	}

	// A stranger registers the pending admin address. The token is mailed to
	// the real owner, so the stranger never gets a session.
	reg, err := srv.auth.Register.CallUnary(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "boss@example.com", DisplayName: "Not Boss", Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.User.EmailVerified {
		t.Fatal("registration verified the email on its own")
	}

	_, err = srv.auth.Login.CallUnary(ctx, connect.NewRequest(&api.LoginRequest{Email: "boss@example.com", Password: "password123"}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Fatalf("unverified login: expected CodeFailedPrecondition, got %v", err)
	}

	// The verification token itself is not a session token.
	mailed := srv.mailer.tokenFor(t, "boss@example.com")
	_, err = srv.clientWithToken(mailed).DeleteGroup.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("DeleteGroup with verification token: expected CodeUnauthenticated, got %v", err)
	}

	if _, err := owner.GetGroup.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID})); err != nil {
		t.Fatalf("group was deleted: %v", err)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := setupTestServer(t, memory.New())
	client := srv.ledgerClientFor(t, "owner@example.com")
	group, member := createGroupWithMember(t, client, "Alex Doe")
	if _, err := client.RecordMeeting.CallUnary(context.Background(), connect.NewRequest(&api.RecordMeetingRequest{
		GroupID:     group.ID,
		MinutesLate: map[string]float64{member.ID: 5},
	})); err != nil {
		t.Fatalf("RecordMeeting failed: %v", err)
	}

	resp, err := http.Get(srv.url + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.url + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, name := range []string{"latepizza_meetings_recorded_total 1", "latepizza_rpc_duration_seconds"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("/metrics missing %q", name)
		}
	}
}

func TestSQLiteBackedServer(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := setupTestServer(t, store)
	client := srv.ledgerClientFor(t, "owner@example.com")
	group, member := createGroupWithMember(t, client, "Alex Doe")

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		if _, err := client.RecordMeeting.CallUnary(ctx, connect.NewRequest(&api.RecordMeetingRequest{
			GroupID:     group.ID,
			MinutesLate: map[string]float64{member.ID: 60},
		})); err != nil {
			t.Fatalf("RecordMeeting %d failed: %v", i, err)
		}
	}

	resp, err := client.ListMeetings.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListMeetings failed: %v", err)
	}
	if len(resp.Msg.Meetings) != 3 {
		t.Fatalf("got %d meetings, want 3", len(resp.Msg.Meetings))
	}

	groupResp, err := client.GetGroup.CallUnary(ctx, connect.NewRequest(&api.GroupIDRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	m := groupResp.Msg.Group.Members[0]
	want := calculator.FromCombined(3 * calculator.SlicesForMinutes(60, calculator.DefaultCurveShift))
	if got := fmt.Sprintf("%d/%d", m.TotalPizzas, m.TotalSlices); got != fmt.Sprintf("%d/%d", want.Pizzas, want.Slices) {
		t.Errorf("balance = %s, want %d/%d", got, want.Pizzas, want.Slices)
	}
}
