package migration

// Create is the initial schema. Listen.date is TEXT because imported
// timestamps arrive either as unix-seconds strings or as RFC3339; they are
// stored verbatim and parsed on the way out.
const Create = `
CREATE TABLE Listener (
  id TEXT PRIMARY KEY,
  last_synced DATETIME
);

CREATE TABLE Song (
  id TEXT PRIMARY KEY,
  artist TEXT NOT NULL,
  title TEXT NOT NULL,
  genre TEXT NOT NULL DEFAULT '',
  duration_seconds INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE Listen (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  listener TEXT NOT NULL,
  song TEXT NOT NULL,
  date TEXT NOT NULL,
  FOREIGN KEY (listener) REFERENCES Listener(id),
  FOREIGN KEY (song) REFERENCES Song(id)
);

CREATE TABLE Report (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  listener TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  run_day INTEGER NOT NULL,
  sent DATETIME,
  FOREIGN KEY (listener) REFERENCES Listener(id)
);

CREATE INDEX idx_listen_listener ON Listen(listener);
`
