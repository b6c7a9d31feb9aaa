package sqlite

const schema = `
-- Track categories
CREATE TABLE IF NOT EXISTS track_categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_track_categories_status ON track_categories(status);

-- Track items
CREATE TABLE IF NOT EXISTS track_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    code TEXT NOT NULL UNIQUE,
    category_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    frequency TEXT NOT NULL CHECK(frequency IN ('daily', 'weekly', 'monthly')),
    status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (category_id) REFERENCES track_categories(id)
);

CREATE INDEX IF NOT EXISTS idx_track_items_category ON track_items(category_id);
CREATE INDEX IF NOT EXISTS idx_track_items_status ON track_items(status);

-- Track questions
-- parent_question_id links follow-up questions to their parent.
-- display_condition holds the normalized JSON predicate text.
CREATE TABLE IF NOT EXISTS track_questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    code TEXT NOT NULL UNIQUE,
    item_id INTEGER NOT NULL,
    text TEXT NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('boolean', 'multi-choice', 'multi-select', 'numeric', 'text')),
    subtype TEXT CHECK(subtype IS NULL OR subtype IN ('integer', 'decimal')),
    units TEXT,
    min_value REAL,
    max_value REAL,
    precision INTEGER,
    instructions TEXT NOT NULL DEFAULT '',
    required INTEGER NOT NULL DEFAULT 0,
    summary_template TEXT NOT NULL DEFAULT '',
    parent_question_id INTEGER,
    display_condition TEXT,
    status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (item_id) REFERENCES track_items(id),
    FOREIGN KEY (parent_question_id) REFERENCES track_questions(id)
);

CREATE INDEX IF NOT EXISTS idx_track_questions_item ON track_questions(item_id);
CREATE INDEX IF NOT EXISTS idx_track_questions_parent ON track_questions(parent_question_id);
CREATE INDEX IF NOT EXISTS idx_track_questions_status ON track_questions(status);

-- Response options
CREATE TABLE IF NOT EXISTS track_response_options (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL,
    code TEXT NOT NULL,
    text TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (question_id) REFERENCES track_questions(id),
    UNIQUE (question_id, code)
);

CREATE INDEX IF NOT EXISTS idx_track_response_options_question ON track_response_options(question_id);
CREATE INDEX IF NOT EXISTS idx_track_response_options_code ON track_response_options(code);

-- Module versions (one row per config domain, upserted on conflict)
CREATE TABLE IF NOT EXISTS module_versions (
    module TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    last_synced_at DATETIME NOT NULL
);

-- Metadata (for internal state like the writing binary's version)
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
