package hf2spm

import (
	"fmt"

	"github.com/wbrown/hf2spm/sentencepiece"
)

// assemblePieces
// Builds the model's piece list from the two tokenizer documents: every
// source vocabulary token at its id with score -id, the configured
// unknown token marked UNKNOWN, then the normalized added tokens as
// USER_DEFINED entries. The source ids must cover 0 through N-1 exactly
// once.
//
// A configured unknown token that never appears in the vocabulary is
// not an error; the model then carries no UNKNOWN piece.
func assemblePieces(config *Document, tokenizer *Document) (
	[]sentencepiece.Piece, error) {
	unkToken, err := field[string](config, config.root, "", "unk_token")
	if err != nil {
		return nil, err
	}
	model, err := field[map[string]interface{}](tokenizer, tokenizer.root,
		"", "model")
	if err != nil {
		return nil, err
	}
	vocab, err := field[map[string]interface{}](tokenizer, model,
		"model", "vocab")
	if err != nil {
		return nil, err
	}

	size := len(vocab)
	pieces := make([]sentencepiece.Piece, size)
	filled := make([]bool, size)
	for token, raw := range vocab {
		id, err := asInt(tokenizer, fmt.Sprintf("model.vocab[%q]", token),
			raw)
		if err != nil {
			return nil, err
		}
		if id < 0 || id >= int64(size) {
			return nil, fmt.Errorf(
				"%w: %s: token %q has id %d outside [0, %d)",
				ErrSchema, tokenizer.name, token, id, size)
		}
		if filled[id] {
			return nil, fmt.Errorf(
				"%w: %s: id %d assigned to both %q and %q",
				ErrSchema, tokenizer.name, id, pieces[id].Piece, token)
		}
		filled[id] = true
		pieceType := sentencepiece.PIECE_NORMAL
		if token == unkToken {
			pieceType = sentencepiece.PIECE_UNKNOWN
		}
		pieces[id] = sentencepiece.Piece{
			Piece: token,
			Score: float32(-id),
			Type:  pieceType,
		}
	}

	added, err := optionalArray(tokenizer, "added_tokens")
	if err != nil {
		return nil, err
	}
	for j, raw := range added {
		path := fmt.Sprintf("added_tokens[%d]", j)
		record, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: %s is %s, want object",
				ErrFieldType, tokenizer.name, path, jsonTypeName(raw))
		}
		content, err := field[string](tokenizer, record, path, "content")
		if err != nil {
			return nil, err
		}
		normalized, err := field[bool](tokenizer, record, path,
			"normalized")
		if err != nil {
			return nil, err
		}
		if !normalized {
			continue
		}
		// Scores count down by position in the added token list, so a
		// skipped record still consumes its slot.
		pieces = append(pieces, sentencepiece.Piece{
			Piece: content,
			Score: float32(-(size + j)),
			Type:  sentencepiece.PIECE_USER_DEFINED,
		})
	}
	return pieces, nil
}
