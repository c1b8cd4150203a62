package widget

// bootstrapJS drives every element carrying data-tg-auth. It is idempotent:
// loading it twice only scans for new roots.
//
// States exposed through data-state: waiting, ready, fallback, authenticated.
// Every poll is bounded by its ReadyPolicy and all timers are cleared on
// success, on timeout and by root.tgAuth.destroy().
const bootstrapJS = `(function () {
  "use strict";
  if (window.tgAuth) { window.tgAuth.scan(); return; }

  function poll(timers, policy, check, done, timeout) {
    if (check()) { done(); return; }
    var attempts = 0;
    var id = setInterval(function () {
      attempts++;
      if (check()) { clearInterval(id); done(); return; }
      if (attempts >= policy.maxAttempts) { clearInterval(id); timeout(); }
    }, policy.interval);
    timers.push(id);
  }

  function init(root) {
    if (root.tgAuth) { return root.tgAuth; }
    var cfg = JSON.parse(root.getAttribute("data-tg-auth"));
    var container = root.querySelector("[data-tg-widget]");
    var fallback = root.querySelector("[data-tg-fallback]");
    var errorBox = root.querySelector("[data-tg-error]");
    var authUrl = window.location.origin + cfg.callbackPath;
    var timers = [];
    var state = "";

    function clearTimers() {
      timers.forEach(function (t) { clearInterval(t); });
      timers = [];
    }
    function setState(next) {
      state = next;
      root.setAttribute("data-state", next);
      if (fallback) { fallback.hidden = next === "ready" || next === "authenticated"; }
    }
    function showError(msg) {
      if (!errorBox) { return; }
      errorBox.textContent = msg;
      errorBox.hidden = false;
    }
    function renderedButton() {
      return container && (container.querySelector("iframe") || container.querySelector("a"));
    }
    function scriptLoaded() {
      return !!(window.Telegram && window.Telegram.Login) ||
        !!document.querySelector('script[data-tg-loader="loaded"]');
    }

    function onMessage(event) {
      if (event.origin !== window.location.origin) { return; }
      var data = event.data || {};
      if (data.type === "telegram-auth-success") {
        clearTimers();
        setState("authenticated");
        root.dispatchEvent(new CustomEvent("telegram-auth", {
          bubbles: true,
          detail: { user: data.user, sessionId: data.sessionId }
        }));
        if (cfg.modal) {
          destroy();
          var dialog = root.closest('[role="dialog"]') || root;
          dialog.removeAttribute("aria-modal");
          dialog.hidden = true;
        }
      } else if (data.error) {
        showError("Authentication failed: " + data.error);
      }
    }

    function onKeydown(event) {
      if (event.key === "Escape") {
        event.preventDefault();
        event.stopPropagation();
      }
    }

    function openManual() {
      if (!cfg.enabled) { showError(cfg.disabledMessage); return; }
      var button = renderedButton();
      if (button) { button.click(); return; }
      window.open(
        cfg.oauthUrl + "&origin=" + encodeURIComponent(window.location.origin) +
          "&return_to=" + encodeURIComponent(authUrl),
        "_blank",
        "width=500,height=600"
      );
    }

    function createWidget() {
      if (container.querySelector("script[data-telegram-login]")) { return; }
      var s = document.createElement("script");
      s.async = true;
      s.src = cfg.scriptUrl;
      s.setAttribute("data-telegram-login", cfg.bot);
      s.setAttribute("data-size", cfg.size);
      s.setAttribute("data-auth-url", authUrl);
      s.setAttribute("data-request-access", "write");
      s.setAttribute("data-userpic", cfg.userpic ? "true" : "false");
      s.onerror = function () {
        showError("Failed to initialize Telegram authentication. Please refresh the page.");
      };
      container.appendChild(s);
      poll(timers, cfg.widget, renderedButton,
        function () { setState("ready"); },
        function () { setState("fallback"); });
    }

    function loadScript() {
      if (document.querySelector('script[src*="telegram-widget.js"][data-tg-loader]')) { return; }
      var loader = document.createElement("script");
      loader.async = true;
      loader.src = cfg.scriptUrl;
      loader.setAttribute("data-tg-loader", "pending");
      loader.onload = function () { loader.setAttribute("data-tg-loader", "loaded"); };
      loader.onerror = function () {
        showError("Failed to load Telegram authentication. Please refresh the page.");
      };
      document.body.appendChild(loader);
    }

    function destroy() {
      clearTimers();
      window.removeEventListener("message", onMessage);
      document.removeEventListener("keydown", onKeydown, true);
    }

    window.addEventListener("message", onMessage);
    if (cfg.modal) { document.addEventListener("keydown", onKeydown, true); }
    if (fallback) { fallback.addEventListener("click", openManual); }

    if (!cfg.enabled) {
      setState("fallback");
      showError(cfg.disabledMessage);
    } else {
      setState("waiting");
      loadScript();
      poll(timers, cfg.script, scriptLoaded, createWidget, function () { setState("fallback"); });
    }

    root.tgAuth = { destroy: destroy, state: function () { return state; } };
    return root.tgAuth;
  }

  function scan() {
    document.querySelectorAll("[data-tg-auth]").forEach(init);
  }

  window.tgAuth = { init: init, scan: scan };
  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", scan);
  } else {
    scan();
  }
})();`

// callbackJS relays the login result to the window that opened the popup.
// The target origin is the page's own origin, so only same-origin openers receive it.
const callbackJS = `(function () {
  "use strict";
  var result = JSON.parse(document.getElementById("tg-auth-result").textContent);
  var message = result.error
    ? { error: result.error }
    : { type: "telegram-auth-success", user: result.user, sessionId: result.sessionId };
  if (window.opener && !window.opener.closed) {
    window.opener.postMessage(message, window.location.origin);
    window.close();
    return;
  }
  if (!result.error) {
    window.location.replace(result.redirect || "/");
  }
})();`
