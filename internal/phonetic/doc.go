// Package phonetic provides IPA transcriptions for English words and
// expressions using OpenAI's GPT models, so the daily email shows learners
// how each word is pronounced.
package phonetic
