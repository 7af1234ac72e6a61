// Package imagen generates scene images with Google's Imagen models through
// the Gemini API (google.golang.org/genai).
package imagen
