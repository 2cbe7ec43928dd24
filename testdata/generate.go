// Command generate writes the sample data used in the README examples:
//
//	go run testdata/generate.go
//	starql -bind users=users.parquet -bind events=events.jsonl.gz -f table -q '$users | pluck(field="name")'
package main

import (
	"log"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/segmentio/encoding/json"
	"github.com/segmentio/parquet-go"
)

type User struct {
	ID     int64    `parquet:"id"`
	Name   string   `parquet:"name"`
	Age    int32    `parquet:"age"`
	Active bool     `parquet:"active"`
	Score  float64  `parquet:"score"`
	Tags   []string `parquet:"tags"`
}

type Event struct {
	User   int64  `json:"user"`
	Kind   string `json:"kind"`
	Amount int    `json:"amount"`
}

func main() {
	users := []User{
		{ID: 1, Name: "alice", Age: 30, Active: true, Score: 95.5, Tags: []string{"admin"}},
		{ID: 2, Name: "bob", Age: 25, Active: false, Score: 82.3},
		{ID: 3, Name: "charlie", Age: 35, Active: true, Score: 88.7, Tags: []string{"beta", "ops"}},
		{ID: 4, Name: "diana", Age: 28, Active: true, Score: 91.2},
		{ID: 5, Name: "eve", Age: 42, Active: false, Score: 76.8},
	}
	if err := writeUsers("users.parquet", users); err != nil {
		log.Fatal(err)
	}
	log.Println("Generated users.parquet with 5 users")

	events := []Event{
		{User: 1, Kind: "login", Amount: 0},
		{User: 3, Kind: "purchase", Amount: 40},
		{User: 1, Kind: "purchase", Amount: 15},
		{User: 4, Kind: "logout", Amount: 0},
	}
	if err := writeEvents("events.jsonl.gz", events); err != nil {
		log.Fatal(err)
	}
	log.Println("Generated events.jsonl.gz with 4 events")

	query := "buyers = $events | filter(where=@ != {user=1, kind=\"login\", amount=0});\n$buyers | count()\n"
	if err := os.WriteFile("example.sq", []byte(query), 0o644); err != nil {
		log.Fatal(err)
	}
}

func writeUsers(path string, users []User) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[User](file)
	if _, err := writer.Write(users); err != nil {
		return err
	}
	return writer.Close()
}

func writeEvents(path string, events []Event) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := json.NewEncoder(zw)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return zw.Close()
}
