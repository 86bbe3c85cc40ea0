package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var _ Store = (*SQLite)(nil)

// SQLite persists the collections in a single database file. SQLite
// serializes writes; meal updates and deletes run in a transaction so the
// match and the write see the same rows.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meals (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		date        TEXT NOT NULL,
		time        TEXT NOT NULL,
		meal_type   TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		calories    REAL NOT NULL
	);
	CREATE TABLE IF NOT EXISTS recipes (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		recipe_name  TEXT NOT NULL,
		meal_type    TEXT NOT NULL,
		cooking_time REAL NOT NULL,
		description  TEXT NOT NULL,
		ratings      REAL NOT NULL
	);
	CREATE TABLE IF NOT EXISTS reminders (
		seq   INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		time  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS notes (
		seq   INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		items TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS events (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL,
		summary     TEXT NOT NULL,
		description TEXT NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		time_zone   TEXT NOT NULL,
		html_link   TEXT NOT NULL,
		status      TEXT NOT NULL,
		recurrence  TEXT NOT NULL,
		reminders   TEXT NOT NULL,
		date        TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) AddMeal(ctx context.Context, meal domain.Meal) (*domain.Meal, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO meals (date, time, meal_type, title, description, calories) VALUES (?, ?, ?, ?, ?, ?)`,
		meal.Date, meal.Time, string(meal.MealType), meal.Title, meal.Description, meal.Calories,
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert meal")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "meal id")
	}
	meal.ID = int(id)
	return &meal, nil
}

func (s *SQLite) UpdateMeal(ctx context.Context, key domain.MealKey, patch domain.MealPatch, matcher MealMatcher) (ret *domain.Meal, err error) {
	err = s.withMatch(ctx, key, matcher, func(tx *sql.Tx, meal *domain.Meal) error {
		patch.Apply(meal)
		_, err := tx.ExecContext(ctx,
			`UPDATE meals SET date = ?, time = ?, meal_type = ?, title = ?, description = ?, calories = ? WHERE id = ?`,
			meal.Date, meal.Time, string(meal.MealType), meal.Title, meal.Description, meal.Calories, meal.ID,
		)
		ret = meal
		return errors.Wrapf(err, "update meal %d", meal.ID)
	})
	return
}

func (s *SQLite) DeleteMeal(ctx context.Context, key domain.MealKey, matcher MealMatcher) (ret *domain.Meal, err error) {
	err = s.withMatch(ctx, key, matcher, func(tx *sql.Tx, meal *domain.Meal) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, meal.ID)
		ret = meal
		return errors.Wrapf(err, "delete meal %d", meal.ID)
	})
	return
}

// withMatch finds the first meal accepted by matcher and hands it to fn
// inside one transaction.
func (s *SQLite) withMatch(ctx context.Context, key domain.MealKey, matcher MealMatcher, fn func(*sql.Tx, *domain.Meal) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	meals, err := queryMeals(ctx, tx)
	if err != nil {
		return err
	}
	for _, meal := range meals {
		if matcher.Match(meal, key) {
			if err := fn(tx, meal); err != nil {
				return err
			}
			return errors.Wrap(tx.Commit(), "commit")
		}
	}
	return ErrNotFound
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryMeals(ctx context.Context, q querier) ([]*domain.Meal, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, date, time, meal_type, title, description, calories FROM meals ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "query meals")
	}
	defer rows.Close()

	ret := []*domain.Meal{}
	for rows.Next() {
		var m domain.Meal
		var mealType string
		if err := rows.Scan(&m.ID, &m.Date, &m.Time, &mealType, &m.Title, &m.Description, &m.Calories); err != nil {
			return nil, errors.Wrap(err, "scan meal")
		}
		m.MealType = domain.MealType(mealType)
		ret = append(ret, &m)
	}
	return ret, rows.Err()
}

func (s *SQLite) Meals(ctx context.Context) ([]*domain.Meal, error) {
	return queryMeals(ctx, s.db)
}

func (s *SQLite) AddRecipe(ctx context.Context, recipe domain.Recipe) (*domain.Recipe, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recipes (recipe_name, meal_type, cooking_time, description, ratings) VALUES (?, ?, ?, ?, ?)`,
		recipe.RecipeName, string(recipe.MealType), recipe.CookingTime, recipe.Description, recipe.Ratings,
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert recipe")
	}
	return &recipe, nil
}

func (s *SQLite) Recipes(ctx context.Context) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_name, meal_type, cooking_time, description, ratings FROM recipes ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "query recipes")
	}
	defer rows.Close()

	ret := []*domain.Recipe{}
	for rows.Next() {
		var r domain.Recipe
		var mealType string
		if err := rows.Scan(&r.RecipeName, &mealType, &r.CookingTime, &r.Description, &r.Ratings); err != nil {
			return nil, errors.Wrap(err, "scan recipe")
		}
		r.MealType = domain.MealType(mealType)
		ret = append(ret, &r)
	}
	return ret, rows.Err()
}

func (s *SQLite) AddReminder(ctx context.Context, reminder domain.Reminder) (*domain.Reminder, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO reminders (title, time) VALUES (?, ?)`,
		reminder.Title, string(reminder.Time))
	if err != nil {
		return nil, errors.Wrap(err, "insert reminder")
	}
	return &reminder, nil
}

func (s *SQLite) Reminders(ctx context.Context) ([]*domain.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, time FROM reminders ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "query reminders")
	}
	defer rows.Close()

	ret := []*domain.Reminder{}
	for rows.Next() {
		var r domain.Reminder
		var window string
		if err := rows.Scan(&r.Title, &window); err != nil {
			return nil, errors.Wrap(err, "scan reminder")
		}
		r.Time = domain.ReminderWindow(window)
		ret = append(ret, &r)
	}
	return ret, rows.Err()
}

func (s *SQLite) AddNote(ctx context.Context, note domain.Note) (*domain.Note, error) {
	items, err := json.Marshal(note.Items)
	if err != nil {
		return nil, errors.Wrap(err, "encode note items")
	}
	if _, err = s.db.ExecContext(ctx, `INSERT INTO notes (title, items) VALUES (?, ?)`, note.Title, string(items)); err != nil {
		return nil, errors.Wrap(err, "insert note")
	}
	return &note, nil
}

func (s *SQLite) Notes(ctx context.Context) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, items FROM notes ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "query notes")
	}
	defer rows.Close()

	ret := []*domain.Note{}
	for rows.Next() {
		var n domain.Note
		var items string
		if err := rows.Scan(&n.Title, &items); err != nil {
			return nil, errors.Wrap(err, "scan note")
		}
		if err := json.Unmarshal([]byte(items), &n.Items); err != nil {
			return nil, errors.Wrapf(err, "decode items of note %q", n.Title)
		}
		ret = append(ret, &n)
	}
	return ret, rows.Err()
}

func (s *SQLite) AddEvent(ctx context.Context, event domain.Event) (*domain.Event, error) {
	recurrence, err := json.Marshal(event.Recurrence)
	if err != nil {
		return nil, errors.Wrap(err, "encode recurrence")
	}
	reminders, err := json.Marshal(event.Reminders)
	if err != nil {
		return nil, errors.Wrap(err, "encode reminders")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, summary, description, start_time, end_time, time_zone, html_link, status, recurrence, reminders, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Summary, event.Description, event.Start, event.End, event.TimeZone,
		event.HTMLLink, event.Status, string(recurrence), string(reminders), event.Date,
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert event")
	}
	return &event, nil
}

func (s *SQLite) Events(ctx context.Context) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, summary, description, start_time, end_time, time_zone, html_link, status, recurrence, reminders, date
		 FROM events ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	ret := []*domain.Event{}
	for rows.Next() {
		var e domain.Event
		var recurrence, reminders string
		if err := rows.Scan(&e.ID, &e.Summary, &e.Description, &e.Start, &e.End, &e.TimeZone,
			&e.HTMLLink, &e.Status, &recurrence, &reminders, &e.Date); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		if err := json.Unmarshal([]byte(recurrence), &e.Recurrence); err != nil {
			return nil, errors.Wrapf(err, "decode recurrence of event %s", e.ID)
		}
		if err := json.Unmarshal([]byte(reminders), &e.Reminders); err != nil {
			return nil, errors.Wrapf(err, "decode reminders of event %s", e.ID)
		}
		ret = append(ret, &e)
	}
	return ret, rows.Err()
}
