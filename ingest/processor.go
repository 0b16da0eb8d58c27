// Package ingest runs submitted posts through quality filters and language
// detection before they reach the database writer.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	lingua "github.com/pemistahl/lingua-go"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"pawfeed/models"
)

// Config holds configuration for the ingest pipeline
type Config struct {
	RunLanguageDetection bool
	ConfidenceThreshold  float64
	Languages            []string
	MinWords             int
}

// PostProcessor filters and annotates one post at a time. Safe for a single
// goroutine; the parallel processor creates one per worker.
type PostProcessor struct {
	context            context.Context
	config             Config
	targetLanguages    []lingua.Language
	supportedLanguages map[lingua.Language]string
	languageDetector   lingua.LanguageDetector
	postChan           chan<- interface{}
}

func NewPostProcessor(ctx context.Context, config Config, postChan chan<- interface{}) *PostProcessor {
	if config.MinWords <= 0 {
		config.MinWords = 4
	}
	return &PostProcessor{
		context:            ctx,
		config:             config,
		targetLanguages:    targetLanguagesToLingua(config.Languages),
		supportedLanguages: getSupportedLanguages(),
		languageDetector:   NewLanguageDetector(),
		postChan:           postChan,
	}
}

// processPost validates a submitted post and forwards it to the writer
// channel when it passes every filter.
func (p *PostProcessor) processPost(post models.Post) error {
	words := strings.Fields(post.Text)
	if len(words) < p.config.MinWords {
		postsRejected.WithLabelValues("too_short").Inc()
		return nil
	}

	if !HasEnoughLetters(post.Text) {
		postsRejected.WithLabelValues("low_letter_ratio").Inc()
		return nil
	}

	if ContainsRepetitivePattern(post.Text) {
		postsRejected.WithLabelValues("repetitive").Inc()
		return nil
	}

	if ContainsSpamContent(post.Text) {
		postsRejected.WithLabelValues("spam").Inc()
		return nil
	}

	langs := post.Languages
	if p.config.RunLanguageDetection {
		accepted, detected := p.DetectLanguage(post.Text, post.Languages)
		if !accepted {
			postsRejected.WithLabelValues("language").Inc()
			return nil
		}
		langs = detected
	} else if len(p.config.Languages) > 0 {
		if len(post.Languages) == 0 || !lo.Some(post.Languages, p.config.Languages) {
			postsRejected.WithLabelValues("language").Inc()
			return nil
		}
	}

	if post.Id == "" {
		post.Id = uuid.New().String()
	}
	if post.Privacy == "" {
		post.Privacy = "public"
	}
	if post.CreatedAt == 0 {
		post.CreatedAt = time.Now().Unix()
	}
	post.Languages = langs

	log.WithFields(log.Fields{
		"id":        post.Id,
		"author":    post.AuthorId,
		"languages": post.Languages,
	}).Info("Accepting post")

	postsAccepted.Inc()

	select {
	case p.postChan <- models.CreatePostEvent{Post: post}:
	case <-p.context.Done():
		return p.context.Err()
	}

	return nil
}

// DetectLanguage reports whether the text matches a configured target
// language and returns the language tags with the detected code appended.
// With no targets configured every post is accepted and tagged best-effort.
func (p *PostProcessor) DetectLanguage(text string, currentLangs []string) (bool, []string) {
	targets := p.targetLanguages
	if len(targets) == 0 {
		lang, ok := p.languageDetector.DetectLanguageOf(text)
		if !ok {
			return true, currentLangs
		}
		return true, appendLanguage(currentLangs, linguaToISO(lang, p.supportedLanguages))
	}

	var highestConf float64
	var detectedLang lingua.Language

	for _, lang := range targets {
		conf := p.languageDetector.ComputeLanguageConfidence(text, lang)
		if conf > highestConf {
			highestConf = conf
			detectedLang = lang
		}
	}

	if highestConf < p.config.ConfidenceThreshold {
		return false, currentLangs
	}

	log.Infof("%s confidence: %.2f (threshold: %.2f)",
		detectedLang.String(), highestConf, p.config.ConfidenceThreshold)

	return true, appendLanguage(currentLangs, linguaToISO(detectedLang, p.supportedLanguages))
}

func appendLanguage(langs []string, code string) []string {
	// Copy to avoid mutating the input
	updated := make([]string, len(langs))
	copy(updated, langs)
	if code != "" && !lo.Contains(updated, code) {
		updated = append(updated, code)
	}
	return updated
}
