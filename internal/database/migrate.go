package database

// migrate.go creates the schema and optionally seeds a demo catalogue on
// startup.  Statements are idempotent (CREATE TABLE IF NOT EXISTS, seed only
// into empty tables) so the server can run them unconditionally before it
// starts listening.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/cinebook/internal/seatmap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(120) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name     VARCHAR(100) NULL,
		role          VARCHAR(20)  NOT NULL DEFAULT 'CUSTOMER',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)  NOT NULL UNIQUE,
		expires_at DATETIME  NOT NULL,
		revoked_at DATETIME  NULL,
		created_at DATETIME  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS theaters (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(100) NOT NULL UNIQUE,
		address    VARCHAR(200) NOT NULL,
		city       VARCHAR(50)  NOT NULL,
		image_url  VARCHAR(200) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS movies (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title       VARCHAR(100) NOT NULL,
		genre       VARCHAR(50)  NOT NULL,
		duration_min INT         NOT NULL,
		description TEXT         NULL,
		poster_url  VARCHAR(200) NULL,
		language    VARCHAR(50)  NOT NULL DEFAULT 'English',
		rating      DECIMAL(3,1) NOT NULL DEFAULT 0.0,
		director    VARCHAR(100) NULL,
		cast_list   TEXT         NULL,
		trailer_url VARCHAR(200) NULL,
		is_active   TINYINT(1)   NOT NULL DEFAULT 1,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS showtimes (
		id                   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		movie_id             BIGINT UNSIGNED NOT NULL,
		theater_id           BIGINT UNSIGNED NOT NULL,
		starts_at            DATETIME NOT NULL,
		hall                 VARCHAR(50) NOT NULL,
		seat_rows            INT UNSIGNED NOT NULL,
		seat_cols            INT UNSIGNED NOT NULL,
		price_standard_cents INT UNSIGNED NOT NULL DEFAULT 25000,
		price_premium_cents  INT UNSIGNED NOT NULL DEFAULT 40000,
		price_vip_cents      INT UNSIGNED NOT NULL DEFAULT 60000,
		created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_showtime_movie   FOREIGN KEY (movie_id)   REFERENCES movies(id)   ON DELETE CASCADE,
		CONSTRAINT fk_showtime_theater FOREIGN KEY (theater_id) REFERENCES theaters(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS seat_layouts (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		showtime_id BIGINT UNSIGNED NOT NULL UNIQUE,
		layout      TEXT NOT NULL,
		CONSTRAINT fk_layout_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id      BIGINT UNSIGNED NOT NULL,
		showtime_id  BIGINT UNSIGNED NOT NULL,
		seats        TEXT NOT NULL,
		food_items   TEXT NULL,
		total_cents  INT UNSIGNED NOT NULL,
		status       VARCHAR(20) NOT NULL DEFAULT 'confirmed',
		attended     TINYINT(1)  NOT NULL DEFAULT 0,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_booking_user     FOREIGN KEY (user_id)     REFERENCES users(id),
		CONSTRAINT fk_booking_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS food_items (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		description TEXT NULL,
		price_cents INT UNSIGNED NOT NULL,
		category    VARCHAR(50) NOT NULL DEFAULT 'Snacks',
		image_url   VARCHAR(200) NULL,
		is_active   TINYINT(1) NOT NULL DEFAULT 1
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		movie_id   BIGINT UNSIGNED NOT NULL,
		rating     TINYINT UNSIGNED NOT NULL,
		comment    TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_review_user_movie (user_id, movie_id),
		CONSTRAINT fk_review_user  FOREIGN KEY (user_id)  REFERENCES users(id)  ON DELETE CASCADE,
		CONSTRAINT fk_review_movie FOREIGN KEY (movie_id) REFERENCES movies(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}

// Migrate applies the schema.  Each statement is executed in order; the
// first failure aborts the whole run.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: statement %d: %w", i, err)
		}
	}
	return nil
}

// Seed inserts a small demo catalogue (one theater, two movies, showtimes
// for the next three evenings with an 8x12 layout whose back rows are
// premium and vip, and a food menu).  It only writes into empty tables.
func Seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if err := seedCatalogue(ctx, db); err != nil {
			return err
		}
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM food_items").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if err := seedFood(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

func seedCatalogue(ctx context.Context, db *sql.DB) error {
	res, err := db.ExecContext(ctx,
		"INSERT INTO theaters (name, address, city) VALUES (?,?,?)",
		"CineBook Central", "12 MG Road", "Bengaluru")
	if err != nil {
		return err
	}
	theaterID, _ := res.LastInsertId()

	movies := []struct {
		title, genre, lang string
		duration           int
	}{
		{"The Long Night", "Thriller", "English", 128},
		{"Monsoon Express", "Drama", "Hindi", 141},
	}

	const rows, cols = 8, 12
	categories := map[string][]seatmap.SeatRef{}
	for c := 0; c < cols; c++ {
		categories["premium"] = append(categories["premium"],
			seatmap.SeatRef{Row: 5, Col: c}, seatmap.SeatRef{Row: 6, Col: c})
		categories["vip"] = append(categories["vip"], seatmap.SeatRef{Row: 7, Col: c})
	}
	layout, err := seatmap.NewGrid(rows, cols, categories).Encode()
	if err != nil {
		return err
	}

	for _, m := range movies {
		res, err := db.ExecContext(ctx,
			"INSERT INTO movies (title, genre, duration_min, language) VALUES (?,?,?,?)",
			m.title, m.genre, m.duration, m.lang)
		if err != nil {
			return err
		}
		movieID, _ := res.LastInsertId()

		for day := 1; day <= 3; day++ {
			startsAt := time.Now().UTC().AddDate(0, 0, day).Truncate(time.Hour)
			res, err := db.ExecContext(ctx,
				`INSERT INTO showtimes (movie_id, theater_id, starts_at, hall, seat_rows, seat_cols,
				 price_standard_cents, price_premium_cents, price_vip_cents)
				 VALUES (?,?,?,?,?,?,?,?,?)`,
				movieID, theaterID, startsAt, "Screen 1", rows, cols, 18000, 25000, 40000)
			if err != nil {
				return err
			}
			showtimeID, _ := res.LastInsertId()
			if _, err := db.ExecContext(ctx,
				"INSERT INTO seat_layouts (showtime_id, layout) VALUES (?,?)",
				showtimeID, layout); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedFood(ctx context.Context, db *sql.DB) error {
	items := []struct {
		name, desc, category string
		cents                uint32
	}{
		{"Salted Popcorn (Large)", "Classic salted popcorn.", "Snacks", 18000},
		{"Caramel Popcorn (Large)", "Sweet and crunchy caramel popcorn.", "Snacks", 22000},
		{"Nachos with Cheese Dip", "Crispy nachos served with a warm cheese dip.", "Snacks", 16000},
		{"Cola (500ml)", "Chilled soft drink.", "Drinks", 9000},
		{"Classic Combo", "1 Salted Popcorn + 1 Cola", "Combo", 25000},
	}
	for _, it := range items {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO food_items (name, description, price_cents, category) VALUES (?,?,?,?)",
			it.name, it.desc, it.cents, it.category); err != nil {
			return err
		}
	}
	return nil
}
