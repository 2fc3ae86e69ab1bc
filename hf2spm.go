package hf2spm

import (
	"fmt"

	"github.com/wbrown/hf2spm/resources"
	"github.com/wbrown/hf2spm/sentencepiece"
)

// Convert
// Turns a tokenizer_config.json and tokenizer.json pair into a
// sentencepiece model. The returned model is fully assembled and owns
// all of its data; the input buffers are not retained.
func Convert(configJSON []byte, tokenizerJSON []byte) (
	*sentencepiece.Model, error) {
	config, err := ParseDocument(resources.TOKENIZER_CONFIG_JSON,
		configJSON)
	if err != nil {
		return nil, err
	}
	tokenizer, err := ParseDocument(resources.TOKENIZER_JSON,
		tokenizerJSON)
	if err != nil {
		return nil, err
	}
	forward, inverse, err := normalizerSpecs()
	if err != nil {
		return nil, err
	}
	pieces, err := assemblePieces(config, tokenizer)
	if err != nil {
		return nil, err
	}
	return &sentencepiece.Model{
		Pieces: pieces,
		Trainer: sentencepiece.TrainerSpec{
			ModelType: sentencepiece.MODEL_BPE,
			VocabSize: int32(len(pieces)),
		},
		Normalizer:   forward,
		Denormalizer: inverse,
	}, nil
}

// ConvertFiles
// Reads the tokenizer documents from hfDir and writes the converted
// model to outputPath, creating parent directories as needed. The
// output appears in one atomic replace after the conversion has fully
// succeeded; a failed conversion leaves no file behind.
func ConvertFiles(hfDir string, outputPath string) error {
	rsrcs, rsrcErr := resources.LoadTokenizerDir(hfDir)
	if rsrcErr != nil {
		return fmt.Errorf("%w: %v", ErrIO, rsrcErr)
	}
	defer rsrcs.Cleanup()
	configJSON := *(*rsrcs)[resources.TOKENIZER_CONFIG_JSON].Data
	tokenizerJSON := *(*rsrcs)[resources.TOKENIZER_JSON].Data
	model, err := Convert(configJSON, tokenizerJSON)
	if err != nil {
		return err
	}
	if writeErr := resources.WriteFileAtomic(outputPath,
		model.Marshal()); writeErr != nil {
		return fmt.Errorf("%w: %v", ErrIO, writeErr)
	}
	return nil
}
