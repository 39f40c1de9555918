// Package ml implements the small classical learners used throughout
// the demos: k-nearest neighbors, a linear SVM trained by stochastic
// subgradient descent, k-means clustering with k-means++ seeding, and a
// CART decision tree, plus a shared rasterizer that paints 2D decision
// regions.
package ml
