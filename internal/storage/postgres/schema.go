package postgres

// Schema contains the SQL statements to create the database schema for PostgreSQL.
// All statements are idempotent.
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
    latitude              DOUBLE PRECISION,
    longitude             DOUBLE PRECISION,
    last_seen_at          TEXT NOT NULL DEFAULT '',
    image_urls            TEXT[] NOT NULL DEFAULT '{}',
    behavioral_traits     TEXT[] NOT NULL DEFAULT '{}',
    environmental_factors TEXT[] NOT NULL DEFAULT '{}',
    weather_condition     TEXT NOT NULL DEFAULT '',
    distinctive_features  TEXT[] NOT NULL DEFAULT '{}',
    verification_methods  TEXT[] NOT NULL DEFAULT '{}',
    search_probability    INTEGER CHECK (search_probability BETWEEN 0 AND 100),
    behavior_prediction   TEXT NOT NULL DEFAULT '',
    search_tips           TEXT[] NOT NULL DEFAULT '{}',
    created_at            TIMESTAMPTZ NOT NULL,
    updated_at            TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pet_reports_status_created ON pet_reports(status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_pet_reports_owner ON pet_reports(owner_id);

CREATE TABLE IF NOT EXISTS sightings (
    id            TEXT PRIMARY KEY,
    pet_id        TEXT NOT NULL REFERENCES pet_reports(id) ON DELETE CASCADE,
    latitude      DOUBLE PRECISION,
    longitude     DOUBLE PRECISION,
    description   TEXT NOT NULL DEFAULT '',
    confidence    TEXT NOT NULL DEFAULT '',
    image_urls    TEXT[] NOT NULL DEFAULT '{}',
    reporter_id   TEXT NOT NULL DEFAULT '',
    reporter_name TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sightings_pet_created ON sightings(pet_id, created_at DESC);
`
