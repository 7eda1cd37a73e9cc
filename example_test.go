package propbind_test

import (
	"fmt"
	"log"

	"github.com/aretw0/propbind"
	"github.com/aretw0/propbind/pkg/adapters/memory"
)

type Database struct {
	URL      func() (string, error) `prop:"db.url"`
	PoolSize func() (int, error)    `prop:"db.pool" default:"4"`
	Replicas func() ([]string, error)
}

func ExampleBind() {
	src := memory.FromStrings(map[string]string{
		"host":     "db.internal",
		"db.url":   "postgres://[host]:5432/app",
		"replicas": "r1,r2",
	})

	db, err := propbind.Bind[Database](src)
	if err != nil {
		log.Fatal(err)
	}

	url, _ := db.URL()
	pool, _ := db.PoolSize()
	replicas, _ := db.Replicas()
	fmt.Println(url)
	fmt.Println(pool)
	fmt.Println(replicas)
	// Output:
	// postgres://db.internal:5432/app
	// 4
	// [r1 r2]
}
