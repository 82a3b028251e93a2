package alert

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"clutchintel/lib/scrapers/sitemaps"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupSmtp(t testing.TB) func() {
	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	smtp, err := testcontainers.GenericContainer(
		context.Background(),
		testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "haravich/fake-smtp-server",
				ExposedPorts: []string{"1025:1025", "1080:1080"},
				WaitingFor:   wait.ForLog("smtp://0.0.0.0:1025"),
			},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := smtp.Terminate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}

func badReport() sitemaps.RunReport {
	started := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	return sitemaps.RunReport{
		TotalSources: 4,
		Succeeded:    1,
		Failed:       3,
		URLCount:     12,
		StartedAt:    started,
		FinishedAt:   started.Add(42 * time.Second),
		Failures: []sitemaps.SourceFailure{
			{
				Source:       sitemaps.RemoteSource("https://a.test/sitemap.xml"),
				Status:       sitemaps.StatusBlocked,
				AttemptCount: 3,
				Reason:       "403 Forbidden",
			},
			{
				Source:       sitemaps.RemoteSource("https://b.test/sitemap.xml"),
				Status:       sitemaps.StatusTimeout,
				AttemptCount: 3,
				Reason:       "context deadline exceeded",
			},
			{
				Source:       sitemaps.LocalSource("missing.xml"),
				Status:       sitemaps.StatusError,
				AttemptCount: 2,
				Reason:       "open missing.xml: no such file or directory",
			},
		},
	}
}

func TestSendRunAlert(t *testing.T) {
	cleanup := setupSmtp(t)
	defer cleanup()

	mailer := NewMailer(Config{
		Smtp: SmtpConfig{
			Server:       "localhost",
			Port:         1025,
			EmailAddress: "alerts@clutchintel.local",
			Password:     "default",
		},
		To: []string{"ops@clutchintel.local"},
	})

	sent, err := mailer.SendRunAlert(context.Background(), "sitemaps", badReport())
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, sent)

	res, err := resty.New().R().
		Get("http://127.0.0.1:1080/messages/1.plain")
	if err != nil {
		t.Fatal(err)
	}
	body := res.String()
	require.Contains(t, body, "success rate of 25%")
	require.Contains(t, body, "https://a.test/sitemap.xml (blocked after 3 attempts): 403 Forbidden")
	require.Contains(t, body, "missing.xml (error after 2 attempts)")
}

func TestSendRunAlertSkipsHealthyRun(t *testing.T) {
	mailer := NewMailer(Config{To: []string{"ops@clutchintel.local"}})

	report := sitemaps.RunReport{TotalSources: 5, Succeeded: 5}
	sent, err := mailer.SendRunAlert(context.Background(), "sitemaps", report)
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, sent)
}

func TestSendRunAlertWithoutRecipients(t *testing.T) {
	mailer := NewMailer(Config{})

	sent, err := mailer.SendRunAlert(context.Background(), "sitemaps", badReport())
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, sent)
}

func TestSendRunAlertHonorsThreshold(t *testing.T) {
	mailer := NewMailer(Config{
		To:             []string{"ops@clutchintel.local"},
		MinSuccessRate: 0.2,
	})

	// 25% success clears a 20% threshold, no email
	sent, err := mailer.SendRunAlert(context.Background(), "sitemaps", badReport())
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, sent)
}
