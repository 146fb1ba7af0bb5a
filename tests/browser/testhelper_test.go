package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/crypto/bcrypt"

	"auragym/internal/adapters/email"
	web "auragym/internal/adapters/http"
	"auragym/internal/adapters/storage"
	accountStore "auragym/internal/adapters/storage/account"
	mealStore "auragym/internal/adapters/storage/meal"
	sessionStore "auragym/internal/adapters/storage/session"
	workoutStore "auragym/internal/adapters/storage/workout"
	"auragym/internal/application/orchestrators"
	"auragym/internal/domain/account"
)

const (
	testAdminCode     = "AURA2024"
	testAdminEmail    = "admin@test.com"
	testAdminPassword = "TestPass123!"
)

var testSecret = []byte("browser-test-secret-32-bytes-ok!")

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  web.Stores
	Mailer  *email.NoopSender
	AdminID string
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	account.HashCost = bcrypt.MinCost

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	stores := web.Stores{
		AccountStore: accountStore.NewSQLiteStore(db),
		SessionStore: sessionStore.NewSQLiteStore(db),
		WorkoutStore: workoutStore.NewSQLiteStore(db),
		MealStore:    mealStore.NewSQLiteStore(db),
	}

	// Seed an admin through the same signup flow the form uses.
	ctx := context.Background()
	admin, err := orchestrators.ExecuteSignup(ctx, orchestrators.SignupInput{
		Email:       testAdminEmail,
		Password:    testAdminPassword,
		DisplayName: "Test Admin",
		Role:        account.RoleAdmin,
		AccessCode:  testAdminCode,
	}, orchestrators.SignupDeps{
		AccountStore: stores.AccountStore,
		Sessions:     orchestrators.IssueSessionDeps{SessionStore: stores.SessionStore},
		AdminCode:    testAdminCode,
	})
	if err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	mailer := email.NewNoopSender()
	server, err := web.NewServer(stores, mailer, web.Options{
		SessionTTL: time.Hour,
		AdminCode:  testAdminCode,
		BaseURL:    fmt.Sprintf("http://127.0.0.1:%d", port),
		CSRFKey:    testSecret,
		FlashKey:   testSecret,
		TrustedOrigins: []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		},
		AuthRateLimit: 1000,
	})
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: server.Handler(),
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		Mailer:  mailer,
		AdminID: admin.AccountID,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page in its own context so cookies never leak between pages.
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	bctx, err := a.Browser.NewContext()
	if err != nil {
		t.Fatalf("failed to create browser context: %v", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { bctx.Close() })
	return page
}

func fill(t *testing.T, page playwright.Page, selector, value string) {
	t.Helper()
	if err := page.Locator(selector).Fill(value); err != nil {
		t.Fatalf("failed to fill %s: %v", selector, err)
	}
}

func waitForPath(t *testing.T, page playwright.Page, url string) {
	t.Helper()
	if err := page.WaitForURL(url, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("did not reach %s (at %s): %v", url, page.URL(), err)
	}
}

// login submits the login form for the given role and waits for that role's dashboard.
func (a *testApp) login(t *testing.T, page playwright.Page, role account.Role, emailAddr, password string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator(fmt.Sprintf("input[name=role][value=%s]", role)).Check(); err != nil {
		t.Fatalf("failed to pick role: %v", err)
	}
	fill(t, page, "input[name=email]", emailAddr)
	fill(t, page, "input[name=password]", password)
	if err := page.Locator("form[action='/login'] button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	waitForPath(t, page, a.BaseURL+role.DashboardPath())
}

// signupMember fills the signup form as a member and waits for the member dashboard.
func (a *testApp) signupMember(t *testing.T, page playwright.Page, emailAddr, password string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/signup"); err != nil {
		t.Fatalf("failed to navigate to signup: %v", err)
	}
	fill(t, page, "input[name=displayName]", "Ava")
	fill(t, page, "input[name=email]", emailAddr)
	fill(t, page, "input[name=password]", password)
	fill(t, page, "input[name=age]", "20")
	fill(t, page, "input[name=goal]", "fatloss")
	if err := page.Locator("form[action='/signup'] button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit signup: %v", err)
	}
	waitForPath(t, page, a.BaseURL+"/member/dashboard")
}
