package careerflow_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/careerflow"
	"github.com/aretw0/careerflow/pkg/adapters/memory"
	"github.com/aretw0/careerflow/pkg/domain"
)

// ExampleEngine_Technical walks two ranked domains and prints the ordered outcomes.
func ExampleEngine_Technical() {
	java := domain.NewTree(
		domain.QuestionNode{ID: "java_q1", Question: "Do you enjoy server code?", Yes: domain.Reach("END_BACKEND"), No: domain.Reach("END_ANDROID")},
	).WithEndpoint("END_BACKEND", "Backend Developer").WithEndpoint("END_ANDROID", "Android Developer")
	data := domain.NewTree(
		domain.QuestionNode{ID: "data_q1", Question: "Do you like statistics?", Yes: domain.Reach("END_DS")},
	).WithEndpoint("END_DS", "Data Scientist", "ML Engineer")

	catalog := memory.NewCatalog(
		memory.WithDomains(
			domain.DomainScore{Domain: "Java", Score: 0.9},
			domain.DomainScore{Domain: "Data", Score: 0.6},
		),
		memory.WithTree("Java", java),
		memory.WithTree("Data", data),
	)

	eng, err := careerflow.New(catalog)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	sess, err := eng.StartSession(ctx, "ada@example.com")
	if err != nil {
		log.Fatal(err)
	}

	tech := eng.Technical(sess.ID)
	if err := tech.Start(ctx); err != nil {
		log.Fatal(err)
	}
	for !tech.Done() {
		if _, err := tech.Choose(ctx, domain.Yes); err != nil {
			log.Fatal(err)
		}
	}

	out, _ := domain.OutcomeMap(tech.Results()).MarshalJSON()
	fmt.Println(string(out))
	// Output: {"Java":"Backend Developer","Data":"Data Scientist, ML Engineer"}
}
