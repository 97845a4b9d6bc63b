package export

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bekhruzmd/flashgen/internal/model"
)

// Fixed identifiers for the generated deck. Anki treats model and deck IDs
// as stable keys, so re-importing an export updates notes instead of
// duplicating them.
const (
	ankiModelID  = 1607392319
	ankiDeckID   = 2059400110
	ankiDeckName = "Generated Flashcards"
)

// fieldSep separates note fields inside the flds column.
const fieldSep = "\x1f"

// saveAnki writes an Anki .apkg package: a zip archive holding a SQLite
// collection (collection.anki2) and a media manifest.
func saveAnki(cards []model.Card, path string) error {
	tmpDir, err := os.MkdirTemp("", "flashgen-apkg-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "collection.anki2")
	if err := writeCollection(dbPath, cards); err != nil {
		return fmt.Errorf("build Anki collection: %w", err)
	}
	return writePackage(path, dbPath)
}

func writePackage(path, dbPath string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	dbFile, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open collection: %w", err)
	}
	defer dbFile.Close()

	w, err := zw.Create("collection.anki2")
	if err != nil {
		return fmt.Errorf("add collection to package: %w", err)
	}
	if _, err := io.Copy(w, dbFile); err != nil {
		return fmt.Errorf("copy collection into package: %w", err)
	}

	// No media files in a text-only deck; the manifest is still mandatory.
	mw, err := zw.Create("media")
	if err != nil {
		return fmt.Errorf("add media manifest: %w", err)
	}
	if _, err := mw.Write([]byte("{}")); err != nil {
		return fmt.Errorf("write media manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize package: %w", err)
	}
	return nil
}

const collectionSchema = `
CREATE TABLE col (
	id integer primary key,
	crt integer not null,
	mod integer not null,
	scm integer not null,
	ver integer not null,
	dty integer not null,
	usn integer not null,
	ls integer not null,
	conf text not null,
	models text not null,
	decks text not null,
	dconf text not null,
	tags text not null
);
CREATE TABLE notes (
	id integer primary key,
	guid text not null,
	mid integer not null,
	mod integer not null,
	usn integer not null,
	tags text not null,
	flds text not null,
	sfld text not null,
	csum integer not null,
	flags integer not null,
	data text not null
);
CREATE TABLE cards (
	id integer primary key,
	nid integer not null,
	did integer not null,
	ord integer not null,
	mod integer not null,
	usn integer not null,
	type integer not null,
	queue integer not null,
	due integer not null,
	ivl integer not null,
	factor integer not null,
	reps integer not null,
	lapses integer not null,
	left integer not null,
	odue integer not null,
	odid integer not null,
	flags integer not null,
	data text not null
);
CREATE TABLE revlog (
	id integer primary key,
	cid integer not null,
	usn integer not null,
	ease integer not null,
	ivl integer not null,
	lastIvl integer not null,
	factor integer not null,
	time integer not null,
	type integer not null
);
CREATE TABLE graves (
	usn integer not null,
	oid integer not null,
	type integer not null
);
CREATE INDEX ix_notes_csum ON notes (csum);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
`

func writeCollection(dbPath string, cards []model.Card) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open collection database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	now := time.Now()
	nowSec := now.Unix()
	nowMilli := now.UnixMilli()

	conf, models, decks, dconf, err := collectionBlobs(nowSec)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		nowSec, nowMilli, nowMilli, conf, models, decks, dconf,
	)
	if err != nil {
		return fmt.Errorf("insert collection row: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	noteStmt, err := tx.Prepare(
		`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		 VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`)
	if err != nil {
		return fmt.Errorf("prepare note insert: %w", err)
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(
		`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl,
		                    factor, reps, lapses, left, odue, odid, flags, data)
		 VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return fmt.Errorf("prepare card insert: %w", err)
	}
	defer cardStmt.Close()

	for i, c := range cards {
		noteID := nowMilli + int64(i)
		cardID := noteID + int64(len(cards))
		flds := c.Question + fieldSep + c.Answer
		if _, err := noteStmt.Exec(noteID, noteGUID(c), ankiModelID, nowSec,
			flds, c.Question, fieldChecksum(c.Question)); err != nil {
			return fmt.Errorf("insert note %d: %w", i, err)
		}
		if _, err := cardStmt.Exec(cardID, noteID, ankiDeckID, nowSec, i+1); err != nil {
			return fmt.Errorf("insert card %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notes: %w", err)
	}
	return nil
}

// collectionBlobs builds the JSON configuration columns of the col row.
func collectionBlobs(nowSec int64) (conf, models, decks, dconf string, err error) {
	confMap := map[string]any{
		"nextPos": 1, "estTimes": true, "activeDecks": []int{1},
		"sortType": "noteFld", "timeLim": 0, "sortBackwards": false,
		"addToCur": true, "curDeck": 1, "newBury": true, "newSpread": 0,
		"dueCounts": true, "curModel": strconv.Itoa(ankiModelID),
		"collapseTime": 1200,
	}

	modelMap := map[string]any{
		strconv.Itoa(ankiModelID): map[string]any{
			"id": ankiModelID, "name": "FlashcardModel", "type": 0,
			"mod": nowSec, "usn": -1, "sortf": 0, "did": ankiDeckID,
			"tmpls": []map[string]any{{
				"name": "Card1", "ord": 0,
				"qfmt": "{{Question}}",
				"afmt": `{{FrontSide}}<hr id="answer">{{Answer}}`,
				"bqfmt": "", "bafmt": "", "did": nil,
			}},
			"flds": []map[string]any{
				{"name": "Question", "ord": 0, "sticky": false, "rtl": false,
					"font": "Arial", "size": 20, "media": []string{}},
				{"name": "Answer", "ord": 1, "sticky": false, "rtl": false,
					"font": "Arial", "size": 20, "media": []string{}},
			},
			"css":       ".card { font-family: arial; font-size: 20px; text-align: center; color: black; background-color: white; }",
			"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
			"latexPost": "\\end{document}",
			"req":       []any{[]any{0, "all", []int{0}}},
			"tags":      []string{}, "vers": []string{},
		},
	}

	deckDefaults := func(id int64, name string) map[string]any {
		return map[string]any{
			"id": id, "name": name, "desc": "", "mod": nowSec, "usn": -1,
			"collapsed": false, "browserCollapsed": false,
			"newToday": []int{0, 0}, "revToday": []int{0, 0},
			"lrnToday": []int{0, 0}, "timeToday": []int{0, 0},
			"dyn": 0, "extendNew": 0, "extendRev": 0, "conf": 1,
		}
	}
	deckMap := map[string]any{
		"1":                      deckDefaults(1, "Default"),
		strconv.Itoa(ankiDeckID): deckDefaults(ankiDeckID, ankiDeckName),
	}

	dconfMap := map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "mod": 0, "usn": 0,
			"maxTaken": 60, "autoplay": true, "timer": 0, "replayq": true,
			"new": map[string]any{
				"bury": true, "delays": []int{1, 10}, "initialFactor": 2500,
				"ints": []int{1, 4, 7}, "order": 1, "perDay": 20,
			},
			"rev": map[string]any{
				"bury": true, "ease4": 1.3, "fuzz": 0.05, "ivlFct": 1,
				"maxIvl": 36500, "perDay": 100,
			},
			"lapse": map[string]any{
				"delays": []int{10}, "leechAction": 0, "leechFails": 8,
				"minInt": 1, "mult": 0,
			},
		},
	}

	for _, pair := range []struct {
		dst *string
		src any
	}{{&conf, confMap}, {&models, modelMap}, {&decks, deckMap}, {&dconf, dconfMap}} {
		data, merr := json.Marshal(pair.src)
		if merr != nil {
			return "", "", "", "", fmt.Errorf("marshal collection config: %w", merr)
		}
		*pair.dst = string(data)
	}
	return conf, models, decks, dconf, nil
}

// fieldChecksum is the integer value of the first 8 hex digits of the
// SHA-1 of the sort field, matching Anki's duplicate detection.
func fieldChecksum(sfld string) int64 {
	sum := sha1.Sum([]byte(sfld))
	var v int64
	for _, b := range sum[:4] {
		v = v<<8 | int64(b)
	}
	return v
}

// noteGUID derives a stable note identifier from the card content.
func noteGUID(c model.Card) string {
	sum := sha1.Sum([]byte(c.Question + fieldSep + c.Answer))
	return fmt.Sprintf("%x", sum[:5])
}
