// Package render turns ranked clusters into the markdown digest.
package render

import (
	"fmt"
	"strings"
	"time"

	"headliner/internal/core"
)

// MarkdownDigest renders the ranked clusters as a markdown document. now
// is the batch timestamp used in the header.
func MarkdownDigest(ranked []core.RankedCluster, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Headline Digest - %s\n\n", now.UTC().Format("2006-01-02")))

	if len(ranked) == 0 {
		b.WriteString("No stories made the cut today.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%d stories from the last batch, duplicates grouped.\n\n", len(ranked)))

	for _, cluster := range ranked {
		b.WriteString(fmt.Sprintf("## %d. %s\n\n", cluster.Rank, cluster.Headline))

		if cluster.URL != "" {
			b.WriteString(fmt.Sprintf("[%s](%s)", cluster.SourceDomain, cluster.URL))
		} else {
			b.WriteString(cluster.SourceDomain)
		}
		b.WriteString(fmt.Sprintf(" | score %d", cluster.CombinedScore))
		if !cluster.PublishedAt.IsZero() {
			b.WriteString(fmt.Sprintf(" | %s", cluster.PublishedAt.UTC().Format("2006-01-02 15:04 MST")))
		}
		b.WriteString("\n\n")

		if len(cluster.MemberIDs) > 1 {
			b.WriteString(fmt.Sprintf("Reported by %d outlets: %s\n\n",
				len(cluster.MemberIDs), strings.Join(cluster.Sources, ", ")))
		}
		if len(cluster.EntityUnion) > 0 {
			b.WriteString(fmt.Sprintf("*%s*\n\n", strings.Join(cluster.EntityUnion, " · ")))
		}
	}

	return b.String()
}

// SlackText renders a compact plain-text variant for webhook payloads.
// Slack ignores markdown headings, so each story is a single line.
func SlackText(ranked []core.RankedCluster, now time.Time, limit int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("*Headline Digest %s*\n", now.UTC().Format("2006-01-02")))

	if len(ranked) == 0 {
		b.WriteString("No stories made the cut today.\n")
		return b.String()
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for _, cluster := range ranked {
		headline := cluster.Headline
		if cluster.URL != "" {
			headline = fmt.Sprintf("<%s|%s>", cluster.URL, cluster.Headline)
		}
		detail := fmt.Sprintf("%s, score %d", cluster.SourceDomain, cluster.CombinedScore)
		if len(cluster.MemberIDs) > 1 {
			detail += fmt.Sprintf(", %d outlets", len(cluster.MemberIDs))
		}
		b.WriteString(fmt.Sprintf("%d. %s (%s)\n", cluster.Rank, headline, detail))
	}

	return b.String()
}
