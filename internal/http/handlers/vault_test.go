package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vaultdeck/vaultdeck/internal/domain/vault"
	"github.com/vaultdeck/vaultdeck/internal/http/handlers"
	"github.com/vaultdeck/vaultdeck/internal/http/middlewares"
	"github.com/vaultdeck/vaultdeck/internal/repo/memory"
)

// mounts the passwords handler behind a stub that injects the caller id, the
// way RequireAuth would have
func passwordsRouter(repo handlers.EntryStore, callerID string) *gin.Engine {
	r := gin.New()

	r.Use(func(c *gin.Context) {
		if callerID != "" {
			c.Set(middlewares.CtxUserID, callerID)
		}
		c.Next()
	})

	h := handlers.NewPasswordsHandler(repo)

	r.GET("/api/passwords", h.ListEntries)
	r.GET("/api/passwords/:id", h.GetEntryById)
	r.POST("/api/passwords", h.CreateEntry)
	r.PUT("/api/passwords/:id", h.UpdateEntry)
	r.DELETE("/api/passwords/:id", h.DeleteEntry)

	return r
}

func seedEntry(t *testing.T, repo *memory.VaultRepo, ownerID, title string) vault.Entry {
	t.Helper()

	e, err := repo.Create(context.Background(), ownerID, vault.CreateEntryRequest{
		Title:    title,
		Username: "alice",
		Password: "hunter2",
	})

	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	return e
}

func TestListEntries_OwnerScoped(t *testing.T) {
	repo := memory.NewVaultRepo()

	seedEntry(t, repo, "owner-a", "bank")
	seedEntry(t, repo, "owner-a", "email")
	seedEntry(t, repo, "owner-b", "other-persons-secret")

	r := passwordsRouter(repo, "owner-a")

	req := httptest.NewRequest(http.MethodGet, "/api/passwords", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var got struct {
		Items []vault.Entry `json:"items"`
		Count int           `json:"count"`
	}

	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Count != 2 {
		t.Fatalf("count = %d, want 2", got.Count)
	}

	for _, e := range got.Items {
		if e.Title == "other-persons-secret" {
			t.Fatal("another owner's entry leaked into the list")
		}
	}
}

func TestGetEntry_OwnershipMismatchReads404(t *testing.T) {
	repo := memory.NewVaultRepo()

	mine := seedEntry(t, repo, "owner-a", "bank")
	theirs := seedEntry(t, repo, "owner-b", "other")

	r := passwordsRouter(repo, "owner-a")

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{name: "own entry", id: mine.ID, wantStatus: http.StatusOK},
		{name: "someone else's entry", id: theirs.ID, wantStatus: http.StatusNotFound},
		{name: "absent id", id: "no-such-id", wantStatus: http.StatusNotFound},
	}

	var mismatchBody, absentBody string

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/passwords/"+tc.id, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}

			switch tc.id {
			case theirs.ID:
				mismatchBody = rec.Body.String()
			case "no-such-id":
				absentBody = rec.Body.String()
			}
		})
	}

	// an attacker probing ids must not be able to tell "exists under another
	// owner" from "does not exist"
	if mismatchBody != absentBody {
		t.Errorf("mismatch body %q differs from absent body %q", mismatchBody, absentBody)
	}
}

func TestUpdateEntry_OwnershipMismatch404(t *testing.T) {
	repo := memory.NewVaultRepo()

	theirs := seedEntry(t, repo, "owner-b", "other")

	r := passwordsRouter(repo, "owner-a")

	body := `{"title":"hijacked","username":"x","password":"y"}`
	req := httptest.NewRequest(http.MethodPut, "/api/passwords/"+theirs.ID, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	// the row must be untouched
	kept, err := repo.GetByID(context.Background(), "owner-b", theirs.ID)

	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if kept.Title != "other" {
		t.Errorf("title = %q, update crossed the ownership boundary", kept.Title)
	}
}

func TestDeleteEntry_OwnershipMismatch404(t *testing.T) {
	repo := memory.NewVaultRepo()

	theirs := seedEntry(t, repo, "owner-b", "other")

	r := passwordsRouter(repo, "owner-a")

	req := httptest.NewRequest(http.MethodDelete, "/api/passwords/"+theirs.ID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	// still there for its owner
	if _, err := repo.GetByID(context.Background(), "owner-b", theirs.ID); err != nil {
		t.Errorf("entry was deleted across the ownership boundary: %v", err)
	}
}

func TestCreateEntry(t *testing.T) {
	repo := memory.NewVaultRepo()

	r := passwordsRouter(repo, "owner-a")

	body := `{"title":"bank","username":"alice","password":"hunter2","url":"https://bank.example"}`
	req := httptest.NewRequest(http.MethodPost, "/api/passwords", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var got vault.Entry

	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID == "" {
		t.Error("expected a generated id")
	}

	// ownership comes from the resolved identity, and is never serialized
	stored, err := repo.GetByID(context.Background(), "owner-a", got.ID)

	if err != nil {
		t.Fatalf("created entry not visible to its owner: %v", err)
	}

	if stored.OwnerID != "owner-a" {
		t.Errorf("OwnerID = %q, want owner-a", stored.OwnerID)
	}
}

func TestPasswords_NoIdentityFailsClosed(t *testing.T) {
	repo := memory.NewVaultRepo()

	// no caller id on the context at all
	r := passwordsRouter(repo, "")

	req := httptest.NewRequest(http.MethodGet, "/api/passwords", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
