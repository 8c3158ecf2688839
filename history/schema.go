// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package history

const eventTableSchema = `
create table if not exists event (
	ts integer,
	poll text,
	op text,
	participant blob(20),
	side integer,
	amount text
);

CREATE INDEX if not exists tsIndex on event(ts);
CREATE INDEX if not exists pollIndex on event(poll);
CREATE INDEX if not exists participantIndex on event(participant);
`
