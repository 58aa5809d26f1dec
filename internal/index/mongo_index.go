package index

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clarity-backend/models"
	"clarity-backend/utils"
)

// MongoVectorIndex stores chunk records in a single MongoDB collection.
// Similarity search uses Atlas $vectorSearch when enabled; otherwise it
// scores candidates in process with cosine similarity.
type MongoVectorIndex struct {
	collection          *mongo.Collection
	embedder            Embedder
	vectorSearchEnabled bool
	vectorIndexName     string
}

func NewMongoVectorIndex(collection *mongo.Collection, embedder Embedder, vectorSearchEnabled bool, vectorIndexName string) *MongoVectorIndex {
	return &MongoVectorIndex{
		collection:          collection,
		embedder:            embedder,
		vectorSearchEnabled: vectorSearchEnabled,
		vectorIndexName:     vectorIndexName,
	}
}

func (mi *MongoVectorIndex) Upsert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := mi.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	for i, chunk := range chunks {
		record, err := encodeRecord(chunk, vectors[i])
		if err != nil {
			return err
		}
		_, err = mi.collection.ReplaceOne(
			ctx,
			bson.M{"chunk_id": chunk.ChunkID},
			record,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("%w: upsert %s: %v", models.ErrIndexUnavailable, chunk.ChunkID, err)
		}
	}
	return nil
}

func (mi *MongoVectorIndex) SimilaritySearch(ctx context.Context, query string, k int) ([]models.Chunk, error) {
	if k <= 0 {
		k = 3
	}

	queryVector, err := mi.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	if mi.vectorSearchEnabled {
		return mi.vectorSearch(ctx, queryVector, k)
	}
	return mi.cosineScan(ctx, queryVector, k)
}

// vectorSearch delegates ranking to the Atlas $vectorSearch stage.
func (mi *MongoVectorIndex) vectorSearch(ctx context.Context, queryVector []float32, k int) ([]models.Chunk, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: mi.vectorIndexName},
			{Key: "path", Value: "vector"},
			{Key: "queryVector", Value: queryVector},
			{Key: "numCandidates", Value: k * 10},
			{Key: "limit", Value: k},
		}}},
	}

	cursor, err := mi.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	defer cursor.Close(ctx)

	var chunks []models.Chunk
	for cursor.Next(ctx) {
		var record models.ChunkIndex
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
		}
		chunk, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	return chunks, nil
}

// cosineScan ranks all stored records in process. Fine for the personal
// note collections this serves; Atlas vector search covers larger ones.
func (mi *MongoVectorIndex) cosineScan(ctx context.Context, queryVector []float32, k int) ([]models.Chunk, error) {
	cursor, err := mi.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	defer cursor.Close(ctx)

	type scoredChunk struct {
		chunk models.Chunk
		score float64
	}
	var scored []scoredChunk

	for cursor.Next(ctx) {
		var record models.ChunkIndex
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
		}
		chunk, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		scored = append(scored, scoredChunk{
			chunk: chunk,
			score: cosineSimilarity(queryVector, record.Vector),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	chunks := make([]models.Chunk, len(scored))
	for i, sc := range scored {
		chunks[i] = sc.chunk
	}
	return chunks, nil
}

func (mi *MongoVectorIndex) GetBySource(ctx context.Context, sourceID string) ([]models.Chunk, error) {
	cursor, err := mi.collection.Find(ctx, bson.M{"source": sourceID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	defer cursor.Close(ctx)

	var chunks []models.Chunk
	for cursor.Next(ctx) {
		var record models.ChunkIndex
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
		}
		chunk, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	return chunks, nil
}

func (mi *MongoVectorIndex) DeleteBySource(ctx context.Context, sourceID string) error {
	if _, err := mi.collection.DeleteMany(ctx, bson.M{"source": sourceID}); err != nil {
		return fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}
	return nil
}

func (mi *MongoVectorIndex) ListSources(ctx context.Context) ([]string, error) {
	values, err := mi.collection.Distinct(ctx, "source", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndexUnavailable, err)
	}

	sources := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			sources = append(sources, s)
		}
	}
	sort.Strings(sources)
	return sources, nil
}

// encodeRecord compresses chunk text for storage. Compressed bytes are
// base64 encoded into the text field.
func encodeRecord(chunk models.Chunk, vector []float32) (models.ChunkIndex, error) {
	record := models.ChunkIndex{
		ChunkID:   chunk.ChunkID,
		Source:    chunk.Source,
		Order:     chunk.Order,
		Text:      chunk.Content,
		Vector:    vector,
		UpdatedAt: time.Now().UTC(),
	}

	compressed, algorithm, err := utils.CompressText(chunk.Content)
	if err != nil {
		return models.ChunkIndex{}, fmt.Errorf("failed to compress chunk %s: %w", chunk.ChunkID, err)
	}
	if algorithm != utils.CompressionNone {
		record.Compressed = true
		record.Compression = string(algorithm)
		record.Text = base64.StdEncoding.EncodeToString(compressed)
	}
	return record, nil
}

func decodeRecord(record models.ChunkIndex) (models.Chunk, error) {
	chunk := models.Chunk{
		ChunkID: record.ChunkID,
		Source:  record.Source,
		Order:   record.Order,
		Content: record.Text,
	}

	if record.Compressed {
		compressed, err := base64.StdEncoding.DecodeString(record.Text)
		if err != nil {
			return models.Chunk{}, fmt.Errorf("failed to decode chunk %s: %w", record.ChunkID, err)
		}
		text, err := utils.DecompressText(compressed, utils.CompressionAlgorithm(record.Compression))
		if err != nil {
			return models.Chunk{}, fmt.Errorf("failed to decompress chunk %s: %w", record.ChunkID, err)
		}
		chunk.Content = text
	}
	return chunk, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
