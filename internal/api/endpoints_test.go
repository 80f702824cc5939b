package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newEndpointServer(t *testing.T, wantMethod, wantPath string, status int, response any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != wantMethod {
			t.Errorf("method = %s, want %s", r.Method, wantMethod)
		}
		if r.URL.EscapedPath() != wantPath {
			t.Errorf("path = %s, want %s", r.URL.EscapedPath(), wantPath)
		}
		w.WriteHeader(status)
		if response != nil {
			json.NewEncoder(w).Encode(response)
		}
	}))
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %s, want /api/auth/login", r.URL.Path)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Email != "ada@example.com" {
			t.Errorf("Email = %q, want ada@example.com", req.Email)
		}
		json.NewEncoder(w).Encode(AuthResponse{
			Token: "tok-1",
			User:  User{ID: "u1", Email: req.Email},
		})
	}))
	defer server.Close()

	client, _ := New(server.URL)

	resp, err := client.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token != "tok-1" {
		t.Errorf("Token = %q, want tok-1", resp.Token)
	}
	if resp.User.ID != "u1" {
		t.Errorf("User.ID = %q, want u1", resp.User.ID)
	}
}

func TestGetProfile_EscapesPath(t *testing.T) {
	server := newEndpointServer(t, "GET", "/api/profiles/p%2F1", 200, Profile{ID: "p/1"})
	defer server.Close()

	client, _ := New(server.URL)

	profile, err := client.GetProfile(context.Background(), "p/1")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.ID != "p/1" {
		t.Errorf("ID = %q, want p/1", profile.ID)
	}
}

func TestDiscover_QueryParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("offset"); got != "40" {
			t.Errorf("offset = %q, want 40", got)
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit = %q, want 20", got)
		}
		json.NewEncoder(w).Encode(DiscoverPage{HasMore: true, NextOffset: 60})
	}))
	defer server.Close()

	client, _ := New(server.URL)

	page, err := client.Discover(context.Background(), 40, 20)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if !page.HasMore || page.NextOffset != 60 {
		t.Errorf("page = %+v, want HasMore=true NextOffset=60", page)
	}
}

func TestLikeProfile_ReportsMatch(t *testing.T) {
	server := newEndpointServer(t, "POST", "/api/profiles/p2/like", 200, LikeResult{Matched: true, MatchID: "m1"})
	defer server.Close()

	client, _ := New(server.URL)

	result, err := client.LikeProfile(context.Background(), "p2")
	if err != nil {
		t.Fatalf("LikeProfile() error = %v", err)
	}
	if !result.Matched || result.MatchID != "m1" {
		t.Errorf("result = %+v, want Matched=true MatchID=m1", result)
	}
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/conversations/c1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ClientID == "" {
			t.Error("ClientID is empty")
		}
		json.NewEncoder(w).Encode(Message{
			ID:             "msg-1",
			ClientID:       req.ClientID,
			ConversationID: "c1",
			Body:           req.Body,
		})
	}))
	defer server.Close()

	client, _ := New(server.URL)

	msg, err := client.SendMessage(context.Background(), "c1", SendMessageRequest{
		ClientID: "cid-1",
		Body:     "hey there",
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if msg.ID != "msg-1" || msg.ClientID != "cid-1" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestGetConversationSync(t *testing.T) {
	server := newEndpointServer(t, "GET", "/api/conversations/c1/sync", 200, ConversationSync{
		MessageCount: 4,
		MessagesHash: "abcd",
	})
	defer server.Close()

	client, _ := New(server.URL)

	sync, err := client.GetConversationSync(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetConversationSync() error = %v", err)
	}
	if sync.MessageCount != 4 || sync.MessagesHash != "abcd" {
		t.Errorf("sync = %+v", sync)
	}
}
