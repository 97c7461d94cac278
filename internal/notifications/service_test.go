package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gameshelf/internal/config"
	"gameshelf/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventRefreshCompleted, notifications.Payload{"updated": "3"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		event          notifications.Event
		payload        notifications.Payload
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:  "refresh completed",
			event: notifications.EventRefreshCompleted,
			payload: notifications.Payload{
				"updated":  "12",
				"empty":    "2",
				"failed":   "0",
				"duration": "41s",
			},
			expectTitle:   "Gameshelf - Refresh Complete",
			expectMessage: "💰 Prices refreshed: 12 updated, 2 empty in 41s",
			expectTags:    "gameshelf,refresh,completed",
		},
		{
			name:  "refresh completed with errors",
			event: notifications.EventRefreshCompleted,
			payload: notifications.Payload{
				"updated":  "5",
				"empty":    "1",
				"failed":   "3",
				"duration": "2m0s",
			},
			expectTitle:   "Gameshelf - Refresh Complete (with errors)",
			expectMessage: "💰 Prices refreshed: 5 updated, 1 empty, 3 failed in 2m0s",
			expectTags:    "gameshelf,refresh,completed",
		},
		{
			name:  "resolve completed",
			event: notifications.EventResolveCompleted,
			payload: notifications.Payload{
				"linked": "4",
			},
			expectTitle:   "Gameshelf - Resolve Complete",
			expectMessage: "🔗 Catalog links: 4 linked",
			expectTags:    "gameshelf,resolve,completed",
		},
		{
			name:  "resolve completed with failures",
			event: notifications.EventResolveCompleted,
			payload: notifications.Payload{
				"linked": "2",
				"failed": "1",
			},
			expectTitle:   "Gameshelf - Resolve Complete (with failures)",
			expectMessage: "🔗 Catalog links: 2 linked, 1 failed",
			expectTags:    "gameshelf,resolve,completed",
		},
		{
			name:  "error",
			event: notifications.EventError,
			payload: notifications.Payload{
				"context": "refresh",
				"error":   "catalog request timed out",
			},
			expectTitle:    "Gameshelf - Error",
			expectMessage:  "❌ Error with refresh: catalog request timed out",
			expectTags:     "gameshelf,error,alert",
			expectPriority: "high",
		},
		{
			name:           "test",
			event:          notifications.EventTest,
			payload:        nil,
			expectTitle:    "Gameshelf - Test",
			expectMessage:  "🧪 Notification system test",
			expectTags:     "gameshelf,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceIgnoresSuppressedEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Refresh = false
	cfg.Notifications.Resolve = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	suppressed := []notifications.Event{
		notifications.EventRefreshCompleted,
		notifications.EventResolveCompleted,
		notifications.EventError,
	}

	for _, event := range suppressed {
		if err := svc.Publish(context.Background(), event, notifications.Payload{"value": "ignored"}); err != nil {
			t.Fatalf("expected no error for suppressed event %s, got %v", event, err)
		}
	}
}

func TestNtfyServiceReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("topic not allowed"))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	err := svc.Publish(context.Background(), notifications.EventTest, nil)
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-3 * time.Second, "0s"},
		{1499 * time.Millisecond, "1s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tc := range cases {
		if got := notifications.FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
