// Package glsl embeds the GLSL sources for the cube shading modes.
package glsl

import _ "embed"

// GradientVertexShader positions cube vertices and passes the face index
// derived from gl_VertexID.
//
//go:embed gradient.vert
var GradientVertexShader string

// GradientFragmentShader shades each face with a flat term and a height gradient.
//
//go:embed gradient.frag
var GradientFragmentShader string

// TexturedVertexShader positions cube vertices and forwards texture coordinates.
//
//go:embed textured.vert
var TexturedVertexShader string

// TexturedFragmentShader samples uTexture.
//
//go:embed textured.frag
var TexturedFragmentShader string
