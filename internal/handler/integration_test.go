package handler_test

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

func TestIntegration_NoteLifecycle(t *testing.T) {
	env := newTestEnv(t)

	// 1. Register alice.
	status, body := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice",
		"password": "pw123456",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%v)", status, body)
	}
	aliceID, _ := body["id"].(string)
	if len(aliceID) != 24 || body["username"] != "alice" {
		t.Fatalf("register: unexpected body %v", body)
	}
	if _, leaked := body["passwordHash"]; leaked {
		t.Fatal("register: password hash must not be returned")
	}

	// 2. Login.
	status, body = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "pw123456",
	})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login: expected token")
	}
	expiresAt, err := time.Parse(time.RFC3339, body["expiresAt"].(string))
	if err != nil {
		t.Fatalf("login: parse expiresAt: %v", err)
	}
	if d := time.Until(expiresAt); d < 58*time.Minute || d > time.Hour+time.Minute {
		t.Fatalf("login: expected expiry about 1h ahead, got %v", d)
	}

	// 3. Who am I.
	status, body = env.do(t, http.MethodGet, "/auth/me", token, nil)
	if status != http.StatusOK || body["id"] != aliceID {
		t.Fatalf("me: expected 200 with id %s, got %d %v", aliceID, status, body)
	}

	// 4. Create a note; markup is stripped.
	status, body = env.do(t, http.MethodPost, "/notes", token, map[string]string{
		"title": "<b>Hi</b>",
		"body":  "  first note  ",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%v)", status, body)
	}
	note := body["note"].(map[string]any)
	noteID := note["id"].(string)
	if note["title"] != "Hi" || note["body"] != "first note" || note["ownerId"] != aliceID {
		t.Fatalf("create: unexpected note %v", note)
	}
	if !timestampPattern.MatchString(note["createdAt"].(string)) {
		t.Fatalf("create: createdAt %v not RFC 3339 with ms", note["createdAt"])
	}
	if !timestampPattern.MatchString(body["timestamp"].(string)) {
		t.Fatalf("create: timestamp %v not RFC 3339 with ms", body["timestamp"])
	}

	// 5. Bob cannot see it.
	env.do(t, http.MethodPost, "/auth/register", "", map[string]string{"username": "bob", "password": "pw"})
	_, body = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "bob", "password": "pw"})
	bobToken := body["token"].(string)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		status, _ = env.do(t, method, "/notes/"+noteID, bobToken, map[string]string{"title": "x", "body": "y"})
		if status != http.StatusForbidden {
			t.Fatalf("bob %s: expected 403, got %d", method, status)
		}
	}

	// 6. Alice reads and updates it.
	status, body = env.do(t, http.MethodGet, "/notes/"+noteID, token, nil)
	if status != http.StatusOK || body["note"].(map[string]any)["title"] != "Hi" {
		t.Fatalf("get: unexpected %d %v", status, body)
	}

	status, body = env.do(t, http.MethodPut, "/notes/"+noteID, token, map[string]string{
		"title": "Updated",
		"body":  "<i>new</i> body",
	})
	if status != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%v)", status, body)
	}
	updated := body["note"].(map[string]any)
	if updated["title"] != "Updated" || updated["body"] != "new body" {
		t.Fatalf("update: unexpected note %v", updated)
	}
	if updated["createdAt"] != note["createdAt"] {
		t.Fatalf("update: createdAt changed from %v to %v", note["createdAt"], updated["createdAt"])
	}

	// 7. Delete, then it is gone.
	status, body = env.do(t, http.MethodDelete, "/notes/"+noteID, token, nil)
	if status != http.StatusOK || body["message"] != "Note deleted successfully" {
		t.Fatalf("delete: unexpected %d %v", status, body)
	}
	if !timestampPattern.MatchString(body["timestamp"].(string)) {
		t.Fatalf("delete: timestamp %v not RFC 3339 with ms", body["timestamp"])
	}

	status, _ = env.do(t, http.MethodGet, "/notes/"+noteID, token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", status)
	}
}

func TestIntegration_AuthErrors(t *testing.T) {
	env := newTestEnv(t)
	creds := map[string]string{"username": "alice", "password": "pw123456"}

	if status, _ := env.do(t, http.MethodPost, "/auth/register", "", creds); status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	tests := []struct {
		name   string
		path   string
		body   any
		want   int
		errMsg string
	}{
		{"duplicate username", "/auth/register", creds, http.StatusConflict, "Username already exists"},
		{"register missing password", "/auth/register", map[string]string{"username": "x"}, http.StatusBadRequest, "Username and password required"},
		{"register malformed json", "/auth/register", "{not json", http.StatusBadRequest, "Invalid request body."},
		{"login wrong password", "/auth/login", map[string]string{"username": "alice", "password": "nope"}, http.StatusUnauthorized, "Invalid credentials"},
		{"login unknown user", "/auth/login", map[string]string{"username": "ghost", "password": "nope"}, http.StatusUnauthorized, "Invalid credentials"},
		{"login missing fields", "/auth/login", map[string]string{}, http.StatusBadRequest, "Username and password are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, tt.path, "", tt.body)
			if status != tt.want {
				t.Fatalf("expected %d, got %d (%v)", tt.want, status, body)
			}
			if body["error"] != tt.errMsg {
				t.Fatalf("expected error %q, got %v", tt.errMsg, body["error"])
			}
		})
	}
}

func TestIntegration_ProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	routes := [][2]string{
		{http.MethodGet, "/auth/me"},
		{http.MethodGet, "/notes"},
		{http.MethodPost, "/notes"},
		{http.MethodGet, "/notes/0123456789abcdef01234567"},
		{http.MethodPut, "/notes/0123456789abcdef01234567"},
		{http.MethodDelete, "/notes/0123456789abcdef01234567"},
	}
	for _, r := range routes {
		status, body := env.do(t, r[0], r[1], "", nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", r[0], r[1], status)
		}
		if body["error"] == nil {
			t.Fatalf("%s %s: expected JSON error body", r[0], r[1])
		}
	}
}

func TestIntegration_MalformedNoteID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "alice", "pw")

	for _, id := range []string{"123", "not-a-valid-id", "0123456789abcdef0123456g", "0123456789abcdef012345678"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			status, body := env.do(t, method, "/notes/"+id, token, map[string]string{"title": "t", "body": "b"})
			if status != http.StatusBadRequest {
				t.Fatalf("%s /notes/%s: expected 400, got %d", method, id, status)
			}
			if body["error"] != "Invalid note ID format" {
				t.Fatalf("%s /notes/%s: unexpected error %v", method, id, body["error"])
			}
		}
	}
}

func TestIntegration_NoteValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "alice", "pw")

	status, body := env.do(t, http.MethodPost, "/notes", token, map[string]string{"title": "<br/>", "body": "b"})
	if status != http.StatusBadRequest || body["error"] != "Title is required" {
		t.Fatalf("empty title: got %d %v", status, body)
	}
	status, body = env.do(t, http.MethodPost, "/notes", token, map[string]string{"title": "t"})
	if status != http.StatusBadRequest || body["error"] != "Body is required" {
		t.Fatalf("missing body: got %d %v", status, body)
	}
	status, _ = env.do(t, http.MethodPost, "/notes", token, "[1,2")
	if status != http.StatusBadRequest {
		t.Fatalf("malformed json: expected 400, got %d", status)
	}

	// A failed update leaves the note untouched.
	_, body = env.do(t, http.MethodPost, "/notes", token, map[string]string{"title": "Keep", "body": "me"})
	id := body["note"].(map[string]any)["id"].(string)

	status, _ = env.do(t, http.MethodPut, "/notes/"+id, token, map[string]string{"title": "New", "body": "   "})
	if status != http.StatusBadRequest {
		t.Fatalf("invalid update: expected 400, got %d", status)
	}
	_, body = env.do(t, http.MethodGet, "/notes/"+id, token, nil)
	if got := body["note"].(map[string]any)["title"]; got != "Keep" {
		t.Fatalf("invalid update changed title to %v", got)
	}
}

func TestIntegration_ListNotes(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.registerAndLogin(t, "alice", "pw")
	_, bob := env.registerAndLogin(t, "bob", "pw")

	for i := range 12 {
		title := fmt.Sprintf("Note %02d", i)
		if i%4 == 0 {
			title += " groceries"
		}
		if status, _ := env.do(t, http.MethodPost, "/notes", alice, map[string]string{"title": title, "body": "body"}); status != http.StatusCreated {
			t.Fatalf("create %s: got %d", title, status)
		}
	}
	env.do(t, http.MethodPost, "/notes", bob, map[string]string{"title": "Bob groceries", "body": "body"})

	// Defaults: first page of 10, newest first.
	status, body := env.do(t, http.MethodGet, "/notes", alice, nil)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", status)
	}
	notes := body["notes"].([]any)
	if len(notes) != 10 {
		t.Fatalf("list: expected 10 notes, got %d", len(notes))
	}
	if first := notes[0].(map[string]any)["title"]; first != "Note 11" {
		t.Fatalf("list: expected newest first, got %v", first)
	}
	assertPagination(t, body, 1, 10, 12, 2)
	if !timestampPattern.MatchString(body["timestamp"].(string)) {
		t.Fatalf("list: bad timestamp %v", body["timestamp"])
	}

	// Out-of-range values are clamped.
	_, body = env.do(t, http.MethodGet, "/notes?page=-3&limit=500", alice, nil)
	assertPagination(t, body, 1, 100, 12, 1)

	_, body = env.do(t, http.MethodGet, "/notes?page=abc&limit=xyz", alice, nil)
	assertPagination(t, body, 1, 10, 12, 2)

	// Second page of five.
	_, body = env.do(t, http.MethodGet, "/notes?page=3&limit=5", alice, nil)
	if n := len(body["notes"].([]any)); n != 2 {
		t.Fatalf("page 3: expected 2 notes, got %d", n)
	}
	assertPagination(t, body, 3, 5, 12, 3)

	// Past the end is an empty array, not null.
	_, body = env.do(t, http.MethodGet, "/notes?page=9", alice, nil)
	if arr, ok := body["notes"].([]any); !ok || len(arr) != 0 {
		t.Fatalf("past end: expected empty array, got %#v", body["notes"])
	}

	// A page number too large to compute an offset for is still just past the end.
	_, body = env.do(t, http.MethodGet, "/notes?page=1000000000000000000&limit=10", alice, nil)
	if arr, ok := body["notes"].([]any); !ok || len(arr) != 0 {
		t.Fatalf("huge page: expected empty array, got %#v", body["notes"])
	}
	if total, _ := body["pagination"].(map[string]any)["total"].(float64); total != 12 {
		t.Fatalf("huge page: expected total 12, got %v", total)
	}

	// Search is case-insensitive, scoped to the owner.
	_, body = env.do(t, http.MethodGet, "/notes?search=GROCERIES", alice, nil)
	assertPagination(t, body, 1, 10, 3, 1)
	for _, n := range body["notes"].([]any) {
		if title := n.(map[string]any)["title"].(string); !strings.Contains(title, "groceries") {
			t.Fatalf("search returned non-matching note %q", title)
		}
	}

	// Whitespace-only search means no filter.
	_, body = env.do(t, http.MethodGet, "/notes?search=%20%20", alice, nil)
	assertPagination(t, body, 1, 10, 12, 2)

	// Bob only sees his own.
	_, body = env.do(t, http.MethodGet, "/notes", bob, nil)
	assertPagination(t, body, 1, 10, 1, 1)

	// Identical requests give identical pages.
	_, a := env.do(t, http.MethodGet, "/notes?limit=4&page=2", alice, nil)
	_, b := env.do(t, http.MethodGet, "/notes?limit=4&page=2", alice, nil)
	an, bn := a["notes"].([]any), b["notes"].([]any)
	for i := range an {
		if an[i].(map[string]any)["id"] != bn[i].(map[string]any)["id"] {
			t.Fatalf("repeat listing differs at %d", i)
		}
	}
}

func assertPagination(t *testing.T, body map[string]any, page, limit, total, pages int) {
	t.Helper()
	p, ok := body["pagination"].(map[string]any)
	if !ok {
		t.Fatalf("missing pagination in %v", body)
	}
	want := map[string]int{"page": page, "limit": limit, "total": total, "pages": pages}
	for k, v := range want {
		if got, _ := p[k].(float64); int(got) != v {
			t.Fatalf("pagination %s: expected %d, got %v", k, v, p[k])
		}
	}
}
