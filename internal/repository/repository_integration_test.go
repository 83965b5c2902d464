package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"freshmind/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// The real migrations build the schema, including the demo users seed.
	if err := goose.SetDialect("postgres"); err != nil {
		return dbContainer.Terminate, err
	}
	if err := goose.Up(testDB, "../../migrations"); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func insertProduct(t *testing.T, id int, name, category, targetAge, usedIn, tags string) {
	t.Helper()
	_, err := testDB.Exec(`
		INSERT INTO products (product_id, name, category, sub_category, price, rating, review_count,
		                      target_gender, target_age_groups, used_in, tags, stock)
		VALUES ($1, $2, $3, '', 10000, 4.5, 1200, 'all', $4, $5, $6, 50)
		ON CONFLICT (product_id) DO NOTHING
	`, id, name, category, targetAge, usedIn, tags)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}
}

func TestProductRepositoryDecodesJSONColumns(t *testing.T) {
	insertProduct(t, 101, "김치찌개 밀키트", "간편식/밀키트",
		`["20s","30s"]`, `["김치찌개"]`, `["매운맛","간편"]`)

	repo := NewProductRepository(testDB)
	product, err := repo.FindByID(context.Background(), 101)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if product.Name != "김치찌개 밀키트" {
		t.Errorf("Name = %q", product.Name)
	}
	if len(product.TargetAge) != 2 || product.TargetAge[0] != domain.AgeTwenties {
		t.Errorf("TargetAge = %v, want decoded [20s 30s]", product.TargetAge)
	}
	if len(product.UsedIn) != 1 || product.UsedIn[0] != "김치찌개" {
		t.Errorf("UsedIn = %v", product.UsedIn)
	}
	if len(product.Tags) != 2 {
		t.Errorf("Tags = %v", product.Tags)
	}
	if product.OriginalPrice != nil {
		t.Errorf("OriginalPrice = %v, want nil for NULL column", product.OriginalPrice)
	}
}

func TestProductRepositoryListsInCatalogOrder(t *testing.T) {
	insertProduct(t, 102, "양파 1kg", "채소", `[]`, `[]`, `[]`)
	insertProduct(t, 103, "대파", "채소", `[]`, `[]`, `[]`)

	repo := NewProductRepository(testDB)
	products, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	prev := 0
	for _, p := range products {
		if p.ID <= prev {
			t.Fatalf("products out of catalog order: %d after %d", p.ID, prev)
		}
		prev = p.ID
	}
}

func TestProductRepositoryNotFound(t *testing.T) {
	repo := NewProductRepository(testDB)
	_, err := repo.FindByID(context.Background(), 99999)
	if err != ErrProductNotFound {
		t.Errorf("FindByID error = %v, want ErrProductNotFound", err)
	}
}

func TestUserRepositoryFindByProfileMatchesSeededUsers(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	// The seed migration created the three demo accounts.
	user, err := repo.FindByProfile(ctx, "김지은", "2004-03-15", domain.GenderFemale)
	if err != nil {
		t.Fatalf("FindByProfile failed: %v", err)
	}
	if user.ID != 1 || user.AgeGroup != domain.AgeTwenties {
		t.Errorf("user = %+v, want demo account 1", user)
	}

	// Any field mismatch means no account.
	if _, err := repo.FindByProfile(ctx, "김지은", "2004-03-15", domain.GenderMale); err != ErrUserNotFound {
		t.Errorf("gender mismatch error = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.FindByProfile(ctx, "김지은", "2004-03-16", domain.GenderFemale); err != ErrUserNotFound {
		t.Errorf("birth date mismatch error = %v, want ErrUserNotFound", err)
	}
}

func TestPurchaseRepositoryListByUser(t *testing.T) {
	insertProduct(t, 104, "우유 900ml", "유제품", `[]`, `[]`, `[]`)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := testDB.Exec(`
			INSERT INTO purchase_history (user_id, product_id, quantity, purchased_at)
			VALUES (2, 104, $1, $2)
		`, i+1, time.Now().AddDate(0, 0, -i*10))
		if err != nil {
			t.Fatalf("failed to insert purchase: %v", err)
		}
	}

	repo := NewPurchaseRepository(testDB)
	events, err := repo.ListByUser(ctx, 2)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	prev := 0
	for _, e := range events {
		if e.UserID != 2 {
			t.Errorf("event for user %d leaked into user 2's history", e.UserID)
		}
		if e.ID <= prev {
			t.Errorf("events out of ledger order: %d after %d", e.ID, prev)
		}
		prev = e.ID
	}

	// A user with no history gets an empty slice, not an error.
	none, err := repo.ListByUser(ctx, 3)
	if err != nil {
		t.Fatalf("ListByUser(3) failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("user 3 history = %v, want empty", none)
	}
}

func TestProperty_ChatMessagesRoundTripPerSession(t *testing.T) {
	repo := NewChatMessageRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("messages come back in order, scoped to their session", prop.ForAll(
		func(sessionID string, contents []string) bool {
			if len(contents) == 0 {
				return true
			}

			for i, content := range contents {
				role := domain.ChatRoleUser
				if i%2 == 1 {
					role = domain.ChatRoleAI
				}
				msg := &domain.ChatMessage{
					SessionID: sessionID,
					Role:      role,
					Content:   content,
					CreatedAt: time.Now(),
				}
				if err := repo.Create(ctx, msg); err != nil {
					t.Logf("Create failed: %v", err)
					return false
				}
				if msg.ID == 0 {
					t.Logf("Create did not populate the message ID")
					return false
				}
			}

			messages, err := repo.ListBySession(ctx, sessionID)
			if err != nil {
				t.Logf("ListBySession failed: %v", err)
				return false
			}
			if len(messages) != len(contents) {
				return false
			}
			for i, msg := range messages {
				if msg.Content != contents[i] || msg.SessionID != sessionID {
					return false
				}
			}

			_, _ = testDB.Exec("DELETE FROM chat_messages WHERE session_id = $1", sessionID)
			return true
		},
		gen.RegexMatch(`[a-f0-9]{16,32}`),
		gen.SliceOfN(4, gen.AlphaString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
