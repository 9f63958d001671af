package cmd

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
	"github.com/frahmantamala/peer-recognition/internal/ledger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo company for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			clearTables(db)
		}

		password := "password123"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		companyID := seedCompany(db, "Acme Corp")

		adminID := seedUser(db, companyID, "admin@acme.test", "Ada Admin", string(hash), datamodel.RoleAdmin)
		memberID := seedUser(db, companyID, "bob@acme.test", "Bob Member", string(hash), datamodel.RoleMember)
		seedUser(db, companyID, "carol@acme.test", "Carol Member", string(hash), datamodel.RoleMember)

		seedRecognition(db, adminID, memberID, 10, "Welcome aboard, great first week!")

		fmt.Printf("Seeded company %d with admin %d and members; password for all: %s\n", companyID, adminID, password)
	},
}

func seedCompany(db *sqlx.DB, name string) int64 {
	var id int64
	err := db.QueryRow("SELECT id FROM companies WHERE name = $1", name).Scan(&id)
	if err == nil {
		fmt.Println("company already exists:", name)
		return id
	}

	err = db.QueryRow(
		"INSERT INTO companies (name, created_at, updated_at) VALUES ($1, now(), now()) RETURNING id",
		name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to insert company %s: %v", name, err)
	}
	return id
}

func seedUser(db *sqlx.DB, companyID int64, email, fullName, passwordHash, role string) int64 {
	var id int64
	err := db.QueryRow("SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		fmt.Println("user already exists:", email)
		return id
	}

	err = db.QueryRow(`
		INSERT INTO users (full_name, email, password_hash, company_id, role, giveable_points, redeemable_points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, now(), now())
		RETURNING id`,
		fullName, email, passwordHash, companyID, role, ledger.InitialGiveablePoints).Scan(&id)
	if err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}

	// record the starting balance as a ledger entry so history and balances
	// reconcile for seeded users too
	var txID int64
	err = db.QueryRow(`
		INSERT INTO points_transactions (transaction_type, points, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING id`,
		datamodel.TransactionTypeInitialAllocation, ledger.InitialGiveablePoints).Scan(&txID)
	if err != nil {
		log.Fatalf("failed to insert initial allocation for %s: %v", email, err)
	}
	_, err = db.Exec(`
		INSERT INTO points_recipients (transaction_id, recipient_id, points_amount, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())`,
		txID, id, ledger.InitialGiveablePoints)
	if err != nil {
		log.Fatalf("failed to insert allocation row for %s: %v", email, err)
	}

	fmt.Println("seeded user:", email)
	return id
}

// seedRecognition writes a demo recognition post with both balance sides
// moved, so the seeded ledger reconciles end to end.
func seedRecognition(db *sqlx.DB, senderID, recipientID, points int64, content string) {
	var existing int64
	err := db.QueryRow("SELECT COUNT(*) FROM posts WHERE author_id = $1", senderID).Scan(&existing)
	if err == nil && existing > 0 {
		fmt.Println("demo recognition already exists")
		return
	}

	var postID int64
	err = db.QueryRow(`
		INSERT INTO posts (author_id, content, total_points, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id`,
		senderID, content, points).Scan(&postID)
	if err != nil {
		log.Fatalf("failed to insert demo post: %v", err)
	}

	var txID int64
	err = db.QueryRow(`
		INSERT INTO points_transactions (sender_id, transaction_type, post_id, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id`,
		senderID, datamodel.TransactionTypeRecognition, postID, points).Scan(&txID)
	if err != nil {
		log.Fatalf("failed to insert demo transaction: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO points_recipients (transaction_id, recipient_id, points_amount, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())`,
		txID, recipientID, points); err != nil {
		log.Fatalf("failed to insert demo allocation row: %v", err)
	}

	if _, err := db.Exec(
		"UPDATE users SET giveable_points = giveable_points - $1 WHERE id = $2 AND giveable_points >= $1",
		points, senderID); err != nil {
		log.Fatalf("failed to debit demo sender: %v", err)
	}
	if _, err := db.Exec(
		"UPDATE users SET redeemable_points = redeemable_points + $1 WHERE id = $2",
		points, recipientID); err != nil {
		log.Fatalf("failed to credit demo recipient: %v", err)
	}

	fmt.Println("seeded demo recognition post")
}

func clearTables(db *sqlx.DB) {
	tables := []string{
		"comment_likes", "post_likes", "points_recipients", "points_transactions",
		"comments", "posts", "users", "companies",
	}
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			log.Fatalf("failed to clear table %s: %v", table, err)
		}
	}
	fmt.Println("cleared existing data")
}
