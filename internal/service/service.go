// Package service wires the pipeline stages into the two top-level
// operations: ingesting a directory of document records and answering a
// user utterance.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"paperqa/internal/domain"
	"paperqa/internal/extractor"
	"paperqa/internal/indexer"
	"paperqa/internal/retriever"
	"paperqa/internal/router"
	"paperqa/internal/synthesizer"
)

// Service orchestrates indexing and question answering.
type Service struct {
	chunker    domain.Chunker
	indexer    *indexer.Indexer
	retriever  *retriever.Retriever
	router     *router.Router
	synth      *synthesizer.Synthesizer
	literature domain.LiteratureSearcher
	log        *zap.Logger
}

// New creates a Service from the assembled pipeline stages.
func New(
	chunker domain.Chunker,
	ix *indexer.Indexer,
	ret *retriever.Retriever,
	rt *router.Router,
	synth *synthesizer.Synthesizer,
	literature domain.LiteratureSearcher,
	log *zap.Logger,
) *Service {
	return &Service{
		chunker:    chunker,
		indexer:    ix,
		retriever:  ret,
		router:     rt,
		synth:      synth,
		literature: literature,
		log:        log,
	}
}

// Report summarizes one ingest run.
type Report struct {
	Indexed int
	Chunks  int
	Failed  []FailedDocument
}

// FailedDocument records a document that could not be ingested.
type FailedDocument struct {
	Path string
	Err  error
}

// IngestDir indexes every document record in dir. A failing document is
// reported and skipped; it never aborts the rest of the run. The returned
// error covers directory-level failures only.
func (s *Service) IngestDir(ctx context.Context, dir string) (Report, error) {
	paths, err := extractor.ListRecords(dir)
	if err != nil {
		return Report{}, err
	}
	if len(paths) == 0 {
		return Report{}, errors.New("no document records found in " + dir)
	}
	var rep Report
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		n, err := s.ingestOne(ctx, path)
		if err != nil {
			s.log.Warn("document skipped", zap.String("path", path), zap.Error(err))
			rep.Failed = append(rep.Failed, FailedDocument{Path: path, Err: err})
			continue
		}
		rep.Indexed++
		rep.Chunks += n
	}
	return rep, nil
}

func (s *Service) ingestOne(ctx context.Context, path string) (int, error) {
	rec, err := extractor.LoadRecord(path)
	if err != nil {
		return 0, err
	}
	chunks, err := s.chunker.Chunk(rec)
	if err != nil {
		return 0, err
	}
	if err := s.indexer.IndexDocument(ctx, rec.ID, chunks); err != nil {
		return 0, err
	}
	s.log.Info("document indexed",
		zap.String("document_id", rec.ID),
		zap.String("source", rec.SourceFilename()),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// AskResult carries the outcome of one utterance, for whichever route it
// took. Answer and Results are set for document questions; Papers for
// literature searches.
type AskResult struct {
	Route   router.Route
	Answer  domain.Answer
	Results []domain.RetrievalResult
	Papers  []domain.Paper
}

// Ask routes the utterance and runs the matching pipeline. topK <= 0
// falls back to the retriever default.
func (s *Service) Ask(ctx context.Context, utterance string, topK int) (AskResult, error) {
	route := s.router.Classify(utterance)
	s.log.Debug("utterance routed",
		zap.String("route", string(route)),
		zap.String("utterance", utterance))
	if route == router.RouteLiteratureSearch {
		papers, err := s.literature.Search(ctx, utterance, 0)
		if err != nil {
			return AskResult{Route: route}, err
		}
		return AskResult{Route: route, Papers: papers}, nil
	}
	results, err := s.retriever.Retrieve(ctx, utterance, topK)
	if err != nil {
		return AskResult{Route: route}, err
	}
	answer, err := s.synth.Synthesize(ctx, utterance, results)
	if err != nil {
		return AskResult{Route: route, Results: results}, err
	}
	return AskResult{Route: route, Answer: answer, Results: results}, nil
}
