package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    state TEXT NOT NULL DEFAULT 'reg_name',
    full_name TEXT DEFAULT '',
    member_id TEXT DEFAULT '',
    join_date TEXT DEFAULT '',
    phone TEXT DEFAULT '',
    level TEXT DEFAULT '',
    inviter_id INTEGER DEFAULT 0,
    ref_code TEXT UNIQUE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS stage_progress (
    user_id INTEGER PRIMARY KEY REFERENCES users(id),
    text_done BOOLEAN DEFAULT FALSE,
    audio_done BOOLEAN DEFAULT FALSE,
    video_done BOOLEAN DEFAULT FALSE,
    links_done BOOLEAN DEFAULT FALSE,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lesson_flow (
    user_id INTEGER PRIMARY KEY REFERENCES users(id),
    current_idx INTEGER NOT NULL DEFAULT 0,
    waiting_note BOOLEAN DEFAULT FALSE,
    completed BOOLEAN DEFAULT FALSE,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lesson_notes (
    user_id INTEGER NOT NULL REFERENCES users(id),
    idx INTEGER NOT NULL,
    note TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, idx)
);

CREATE TABLE IF NOT EXISTS counters (
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    value INTEGER NOT NULL,
    PRIMARY KEY (user_id, name)
);

CREATE TABLE IF NOT EXISTS retry_attempts (
    user_id INTEGER NOT NULL,
    checkpoint TEXT NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, checkpoint)
);

CREATE TABLE IF NOT EXISTS follow_up_questions (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    item_idx INTEGER NOT NULL,
    question TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    answer TEXT DEFAULT '',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    answered_at DATETIME
);

CREATE TABLE IF NOT EXISTS collection_entries (
    user_id INTEGER NOT NULL REFERENCES users(id),
    stage TEXT NOT NULL,
    idx INTEGER NOT NULL,
    text TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, stage, idx)
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
