/*
Package careerflow is the flow controller of a staged career assessment.

A candidate moves through five stages in a fixed order: resume upload, job description,
a paginated soft-skills questionnaire, a yes/no decision-tree walk over the best matching
technical domains, and the result. careerflow keeps the per-session stage flags, decides
which pages a session may visit, batches questionnaire answers to the scorer and walks
the domain trees one after another, recording one outcome per domain.

# Architecture

The library follows a hexagonal layout. pkg/domain holds the data model (sessions, stage
flags, questions, decision trees, outcomes). pkg/ports declares the collaborators
(question bank, answer scorer, domain matcher, tree source, session store). The flow
components are pure Go over those ports:

  - pkg/gate: stage gate deciding Allow or Redirect from stage flags alone.
  - pkg/batcher: paginated questionnaire with submit/retry semantics.
  - pkg/walker: decision tree walker with back navigation.
  - pkg/orchestrator: sequential multi-domain walk producing the results.
  - pkg/session: session identity, monotonic stage flags and per-session locking.

Adapters live under pkg/adapters: memory, file (afero) and Redis session stores, an
in-memory and a file catalog, the HTTP client of the assessment backend, and the HTTP
API served by "careerflow serve".

# Usage

	catalog := memory.NewCatalog(
		memory.WithQuestions(questions...),
		memory.WithDomains(domain.DomainScore{Domain: "Java", Score: 0.9}),
		memory.WithTree("Java", javaTree),
	)
	eng, err := careerflow.New(catalog)
	if err != nil {
		log.Fatal(err)
	}

	sess, _ := eng.StartSession(ctx, "ada@example.com")
	q, _ := eng.Questionnaire(sess.ID)
	_ = q.Load(ctx)
	for !q.Done() {
		_ = q.Record(ctx, domain.Agree)
	}

	tech := eng.Technical(sess.ID)
	_ = tech.Start(ctx)
	for !tech.Done() {
		_, _ = tech.Choose(ctx, domain.Yes)
	}
	fmt.Println(domain.OutcomeMap(tech.Results()))
*/
package careerflow
