package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/theimaginaryfoundation/psych-extract/insight"
	"github.com/theimaginaryfoundation/psych-extract/journal"
	"github.com/theimaginaryfoundation/psych-extract/journal/fileutils"
)

// OpenAIConfig configures the OpenAI backend.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	TranscribeModel string
	SpeechModel     string
	Voice           string
	Flex            bool
	Retrier         Retrier
}

// OpenAI implements transcription, emotion scoring, theme extraction and speech.
type OpenAI struct {
	client          *openai.Client
	model           string
	transcribeModel string
	speechModel     string
	voice           string
	flex            bool
	retrier         Retrier
}

// NewOpenAI builds an OpenAI backend. Empty TranscribeModel falls back to Model.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	tm := cfg.TranscribeModel
	if tm == "" {
		tm = cfg.Model
	}
	return &OpenAI{
		client:          &client,
		model:           cfg.Model,
		transcribeModel: tm,
		speechModel:     cfg.SpeechModel,
		voice:           cfg.Voice,
		flex:            cfg.Flex,
		retrier:         cfg.Retrier,
	}
}

// Transcribe sends the page image to a vision model and returns the raw transcription.
func (o *OpenAI) Transcribe(ctx context.Context, img journal.Image) (string, error) {
	if o.transcribeModel == "" {
		return "", errors.New("openai: transcribe model is empty")
	}
	if len(img.Data) == 0 {
		return "", fmt.Errorf("openai: image %s has no data", img.Path)
	}

	dataURL := "data:" + img.MediaType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	content := responses.ResponseInputMessageContentListParam{
		{OfInputImage: &responses.ResponseInputImageParam{
			ImageURL: openai.String(dataURL),
			Detail:   responses.ResponseInputImageDetailHigh,
		}},
		{OfInputText: &responses.ResponseInputTextParam{Text: transcriptionPrompt}},
	}
	params := responses.ResponseNewParams{
		Model:           o.transcribeModel,
		MaxOutputTokens: openai.Int(4000),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
			},
		},
	}
	o.applyTier(&params)

	resp, err := o.respond(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai transcribe %s: %w", img.Path, err)
	}
	return cleanTranscription(resp.OutputText()), nil
}

// Classify scores text against the eleven emotion labels using a strict JSON schema.
func (o *OpenAI) Classify(ctx context.Context, text string) (insight.EmotionDistribution, error) {
	var out emotionScores
	if err := o.structured(ctx, emotionPrompt, text, "EmotionScores", "Per-label emotion probabilities", emotionScoresSchema, &out); err != nil {
		return nil, fmt.Errorf("openai classify: %w", err)
	}
	return out.distribution(), nil
}

// ExtractThemes returns theme phrases, most salient first.
func (o *OpenAI) ExtractThemes(ctx context.Context, text string) ([]string, error) {
	var out themesResponse
	if err := o.structured(ctx, themesPrompt, text, "EntryThemes", "Theme phrases of a journal entry", themesSchema, &out); err != nil {
		return nil, fmt.Errorf("openai themes: %w", err)
	}
	return out.Themes, nil
}

// Speak renders text to audio at dest. The audio format follows dest's extension.
func (o *OpenAI) Speak(ctx context.Context, text, dest string) error {
	if o.speechModel == "" {
		return errors.New("openai: speech model is empty")
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(dest)), ".")
	if format == "" {
		format = "mp3"
	}

	var audio []byte
	err := o.retrier.Do(ctx, func(ctx context.Context) error {
		res, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
			Model:          openai.SpeechModel(o.speechModel),
			Input:          text,
			Voice:          openai.AudioSpeechNewParamsVoice(o.voice),
			ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(format),
		})
		if err != nil {
			return err
		}
		defer res.Body.Close()
		b, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		audio = b
		return nil
	})
	if err != nil {
		return fmt.Errorf("openai speech: %w", err)
	}
	if len(audio) == 0 {
		return errors.New("openai speech: empty audio")
	}
	return fileutils.WriteFileAtomic(dest, audio, 0o644)
}

func (o *OpenAI) structured(ctx context.Context, instructions, text, name, desc string, schema map[string]interface{}, v any) error {
	if o.model == "" {
		return errors.New("model is empty")
	}
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        name,
			Schema:      schema,
			Strict:      openai.Bool(true),
			Description: openai.String(desc),
			Type:        "json_schema",
		},
	}
	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(2500),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(entryInput(text), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}
	o.applyTier(&params)

	resp, err := o.respond(ctx, params)
	if err != nil {
		return err
	}
	if err := fileutils.DecodeModelJSON(resp.OutputText(), v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}

func (o *OpenAI) applyTier(params *responses.ResponseNewParams) {
	if o.flex {
		params.ServiceTier = responses.ResponseNewParamsServiceTierFlex
	}
}

func (o *OpenAI) respond(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	if o.client == nil {
		return nil, errors.New("openai: client is nil")
	}
	var resp *responses.Response
	err := o.retrier.Do(ctx, func(ctx context.Context) error {
		r, err := o.client.Responses.New(ctx, params)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
