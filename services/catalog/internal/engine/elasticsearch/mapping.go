package elasticsearch

// DefaultIndexName is the default Elasticsearch index used for product documents.
const DefaultIndexName = "palindrome_products"

// buildIndexMapping returns the JSON mapping for the products index. Every
// searchable field carries a lowercase-normalized keyword sub-field so exact
// title lookups and substring wildcards are case-insensitive.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "normalizer": {
        "lowercase_normalizer": {
          "type": "custom",
          "filter": ["lowercase", "asciifolding"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":          { "type": "integer" },
      "title":       { "type": "text", "fields": { "keyword": { "type": "keyword", "normalizer": "lowercase_normalizer", "ignore_above": 512 } } },
      "brand":       { "type": "text", "fields": { "keyword": { "type": "keyword", "normalizer": "lowercase_normalizer", "ignore_above": 256 } } },
      "description": { "type": "text", "fields": { "keyword": { "type": "keyword", "normalizer": "lowercase_normalizer", "ignore_above": 2048 } } },
      "price":       { "type": "scaled_float", "scaling_factor": 100 },
      "imageUrl":    { "type": "keyword", "index": false }
    }
  }
}`
}
