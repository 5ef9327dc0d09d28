package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Layout of the generation timestamp, in the report header and in
// the webhook caption
const TIMESTAMP_LAYOUT = "2006-01-02 15:04:05"

// Render the rows as a fixed width plaintext table
func Render(guildPrefix string, generatedAt time.Time, rows []Row) []byte {

	var buffer bytes.Buffer

	// Header block
	buffer.WriteString(fmt.Sprintf("Guild: %s\n", guildPrefix))
	buffer.WriteString(fmt.Sprintf("Generated at: %s\n", generatedAt.Format(TIMESTAMP_LAYOUT)))
	buffer.WriteString(strings.Repeat("=", 70) + "\n\n")

	// Table
	buffer.WriteString(fmt.Sprintf("%-20s | %-20s | %-10s | %8s | Last Join\n", "Old Name", "New Name", "Rank", "Playtime"))
	buffer.WriteString(strings.Repeat("-", 70) + "\n")
	for _, row := range rows {
		buffer.WriteString(fmt.Sprintf("%-20s | %-20s | %-10s | %6.1fh | %s\n", row.GuildName, row.CurrentName, row.Rank, row.Playtime, row.Delta))
	}

	return buffer.Bytes()
}
