package core

import "time"

// Article represents a single fetched headline. Articles are immutable once
// constructed by ingestion; the engine only reads them.
type Article struct {
	ID           string    `json:"id"`            // Unique identifier for the article
	Headline     string    `json:"headline"`      // Headline text
	SourceDomain string    `json:"source_domain"` // Domain of the publishing outlet
	URL          string    `json:"url"`           // Link to the article
	PublishedAt  time.Time `json:"published_at"`  // Publication timestamp (zero if the feed omitted it)
	Body         string    `json:"body"`          // Optional body/summary text (can be empty)
}

// FeatureBundle holds the extracted features for one article. One bundle is
// produced per article that survives temporal filtering and extraction.
type FeatureBundle struct {
	ArticleID string    `json:"article_id"` // ID of the source article
	Embedding []float64 `json:"embedding"`  // Fixed-length semantic embedding vector
	Entities  []string  `json:"entities"`   // Named-entity surface strings from the headline
	Sentiment float64   `json:"sentiment"`  // Polarity score in [-1, 1]
}

// Cluster is a group of articles judged to report the same story. Noise
// points are represented as one-member clusters with Noise set.
type Cluster struct {
	ID               string   `json:"id"`                // Unique identifier for the cluster
	MemberIDs        []string `json:"member_ids"`        // IDs of all member articles
	RepresentativeID string   `json:"representative_id"` // Member chosen to stand for the cluster
	CombinedScore    int      `json:"combined_score"`    // Authority score plus corroboration bonus
	EntityUnion      []string `json:"entity_union"`      // Union of member entity sets, sorted
	Noise            bool     `json:"noise"`             // True if this is a singleton noise cluster
}

// RankedCluster annotates a finalized cluster with its position in the
// digest and the representative article's display fields.
type RankedCluster struct {
	Cluster
	Rank         int       `json:"rank"`          // 1-based position in the digest
	Headline     string    `json:"headline"`      // Representative headline
	URL          string    `json:"url"`           // Representative URL
	SourceDomain string    `json:"source_domain"` // Representative source domain
	PublishedAt  time.Time `json:"published_at"`  // Representative publish time
	Sources      []string  `json:"sources"`       // Distinct member source domains, sorted
}
