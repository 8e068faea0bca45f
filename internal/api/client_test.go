package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// fakeBackend mimics the mood service's routes over an in-memory user list.
type fakeBackend struct {
	mu        sync.Mutex
	users     []map[string]string
	requestID string
	audio     []byte
	audioName string
}

func (b *fakeBackend) router() chi.Router {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.requestID = r.Header.Get("X-Request-Id")
			b.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/api/signup", func(w http.ResponseWriter, r *http.Request) {
		var c Credentials
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Username == "" || c.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username and password required"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, u := range b.users {
			if strings.EqualFold(u["username"], c.Username) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already exists"})
				return
			}
		}
		b.users = append(b.users, map[string]string{"username": c.Username, "password": c.Password})
		writeJSON(w, http.StatusOK, map[string]string{"message": "Signup successful"})
	})

	r.Post("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var c Credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, u := range b.users {
			if strings.EqualFold(u["username"], c.Username) && u["password"] == c.Password {
				writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
				return
			}
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	})

	r.Get("/api/users", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := make([]User, 0, len(b.users))
		for _, u := range b.users {
			out = append(out, User{Username: u["username"]})
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Post("/api/users/delete", func(w http.ResponseWriter, r *http.Request) {
		var u User
		_ = json.NewDecoder(r.Body).Decode(&u)
		b.mu.Lock()
		defer b.mu.Unlock()
		kept := b.users[:0]
		for _, existing := range b.users {
			if !strings.EqualFold(existing["username"], u.Username) {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(b.users) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
			return
		}
		b.users = kept
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	})

	r.Get("/api/users/export", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		var sb strings.Builder
		sb.WriteString("username,password\n")
		for _, u := range b.users {
			sb.WriteString(u["username"] + "," + u["password"] + "\n")
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=users.csv")
		_, _ = io.WriteString(w, sb.String())
	})

	r.Post("/api/mood_detect", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("audio")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No audio file uploaded"})
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		b.mu.Lock()
		b.audio = data
		b.audioName = hdr.Filename
		b.mu.Unlock()
		if len(data) == 0 {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Mood detection failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"mood": "Happy"})
	})

	return r
}

func (b *fakeBackend) lastRequest() (id, audioName string, audio []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requestID, b.audioName, b.audio
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T) (*Client, *fakeBackend) {
	t.Helper()
	b := &fakeBackend{}
	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second), b
}

func TestSignupAndLogin(t *testing.T) {
	c, b := newTestClient(t)
	ctx := context.Background()

	msg, err := c.Signup(ctx, Credentials{Username: "ada", Password: "pw"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if msg != "Signup successful" {
		t.Errorf("signup message: got %q", msg)
	}
	if id, _, _ := b.lastRequest(); id == "" {
		t.Error("expected X-Request-Id header")
	}

	msg, err = c.Login(ctx, Credentials{Username: "ADA", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if msg != "Login successful" {
		t.Errorf("login message: got %q", msg)
	}
}

func TestLoginRejected(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Login(context.Background(), Credentials{Username: "ghost", Password: "x"})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", apiErr.Status)
	}
	if Message(err) != "Invalid credentials" {
		t.Errorf("message: got %q", Message(err))
	}
}

func TestSignupDuplicate(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	if _, err := c.Signup(ctx, Credentials{Username: "ada", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	_, err := c.Signup(ctx, Credentials{Username: "Ada", Password: "other"})
	if Message(err) != "Username already exists" {
		t.Errorf("duplicate signup: got %v", err)
	}
}

func TestUsersDeleteAndExport(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for _, name := range []string{"ada", "bob", "cy"} {
		if _, err := c.Signup(ctx, Credentials{Username: name, Password: "pw"}); err != nil {
			t.Fatal(err)
		}
	}

	users, err := c.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 3 || users[0].Username != "ada" || users[2].Username != "cy" {
		t.Errorf("users: got %+v", users)
	}

	if err := c.DeleteUser(ctx, "bob"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	users, _ = c.Users(ctx)
	if len(users) != 2 || users[1].Username != "cy" {
		t.Errorf("after delete: got %+v", users)
	}

	err = c.DeleteUser(ctx, "bob")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("deleting missing user: got %v", err)
	}

	var buf bytes.Buffer
	n, err := c.ExportUsers(ctx, &buf)
	if err != nil {
		t.Fatalf("ExportUsers: %v", err)
	}
	want := "username,password\nada,pw\ncy,pw\n"
	if buf.String() != want || n != int64(len(want)) {
		t.Errorf("export: got %q (%d bytes)", buf.String(), n)
	}
}

func TestDetectMood(t *testing.T) {
	c, b := newTestClient(t)

	mood, err := c.DetectMood(context.Background(), "audio.wav", strings.NewReader("RIFF...."))
	if err != nil {
		t.Fatalf("DetectMood: %v", err)
	}
	if mood != "Happy" {
		t.Errorf("mood: got %q", mood)
	}
	if _, name, data := b.lastRequest(); name != "audio.wav" || string(data) != "RIFF...." {
		t.Errorf("upload: got %q %q", name, data)
	}

	_, err = c.DetectMood(context.Background(), "audio.wav", strings.NewReader(""))
	if Message(err) != "Mood detection failed" {
		t.Errorf("empty upload: got %v", err)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Users(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "" {
		t.Errorf("got %+v", apiErr)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Login(context.Background(), Credentials{Username: "a", Password: "b"})
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not be an *Error: %v", err)
	}
}
