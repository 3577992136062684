package sqlite

// Schema creates the report and sighting tables. All statements are idempotent.
//
// Timestamps are stored as fixed-width UTC text (see timeLayout) so that
// lexical order equals chronological order. List fields are JSON arrays.
const Schema = `
CREATE TABLE IF NOT EXISTS pet_reports (
    id                    TEXT PRIMARY KEY,
    owner_id              TEXT NOT NULL,
    species               TEXT NOT NULL,
    breed                 TEXT NOT NULL DEFAULT '',
    size                  TEXT NOT NULL DEFAULT '',
    color                 TEXT NOT NULL DEFAULT '',
    name                  TEXT NOT NULL DEFAULT '',
    gender                TEXT NOT NULL DEFAULT '',
    age                   TEXT NOT NULL DEFAULT '',
    status                TEXT NOT NULL,
    latitude              REAL,
    longitude             REAL,
    last_seen_at          TEXT NOT NULL DEFAULT '',
    image_urls            TEXT NOT NULL DEFAULT '[]',
    behavioral_traits     TEXT NOT NULL DEFAULT '[]',
    environmental_factors TEXT NOT NULL DEFAULT '[]',
    weather_condition     TEXT NOT NULL DEFAULT '',
    distinctive_features  TEXT NOT NULL DEFAULT '[]',
    verification_methods  TEXT NOT NULL DEFAULT '[]',
    search_probability    INTEGER,
    behavior_prediction   TEXT NOT NULL DEFAULT '',
    search_tips           TEXT NOT NULL DEFAULT '[]',
    created_at            TEXT NOT NULL,
    updated_at            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pet_reports_status_created ON pet_reports(status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_pet_reports_owner ON pet_reports(owner_id);

CREATE TABLE IF NOT EXISTS sightings (
    id            TEXT PRIMARY KEY,
    pet_id        TEXT NOT NULL REFERENCES pet_reports(id) ON DELETE CASCADE,
    latitude      REAL,
    longitude     REAL,
    description   TEXT NOT NULL DEFAULT '',
    confidence    TEXT NOT NULL DEFAULT '',
    image_urls    TEXT NOT NULL DEFAULT '[]',
    reporter_id   TEXT NOT NULL DEFAULT '',
    reporter_name TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sightings_pet_created ON sightings(pet_id, created_at DESC);
`
